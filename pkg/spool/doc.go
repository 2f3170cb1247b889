// Package spool stores oversized request bodies in a local directory.
//
// Dir implements the body-files collaborator consumed by the exchange
// engine. Each spooled body gets a fresh file named <prefix><uuid>.body
// inside the base directory; the directory is created with mode 0700 and
// files with mode 0600. The engine removes a file once the request body is
// closed.
//
//	dir, err := spool.NewDir(os.TempDir(), spool.WithPrefix("upload-"))
//	if err != nil {
//		return err
//	}
//	engine := exchange.NewEngine(exchange.WithBodyFiles(dir))
//
// Names returned by Create are relative to the base directory. Open and
// Remove reject names that would escape it.
package spool
