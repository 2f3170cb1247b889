package exchange

import (
	"bytes"
	"errors"
	"io"
)

// BodyFiles spools request bodies that do not fit the read buffer.
// Implementations must be safe for concurrent use.
type BodyFiles interface {
	// Create opens a new spool file and returns its name with a writer.
	Create() (name string, w io.WriteCloser, err error)
	// Open reopens a spooled file for reading.
	Open(name string) (io.ReadCloser, error)
	// Remove deletes a spooled file.
	Remove(name string) error
}

// Body is the request body source: either a MemoryBody or a FileBody,
// chosen once while parsing.
type Body interface {
	io.Reader
	io.Closer
	// Size is the declared Content-Length.
	Size() int64
	isBody()
}

// MemoryBody is a body held in the exchange's read buffer.
type MemoryBody struct {
	data []byte
	r    bytes.Reader
}

func newMemoryBody(data []byte) *MemoryBody {
	b := &MemoryBody{data: data}
	b.r.Reset(data)
	return b
}

func (b *MemoryBody) Read(p []byte) (int, error) { return b.r.Read(p) }

// Close is a no-op.
func (b *MemoryBody) Close() error { return nil }

func (b *MemoryBody) Size() int64 { return int64(len(b.data)) }

// Bytes returns the body bytes. The slice aliases the exchange buffer and is
// valid until the exchange is closed.
func (b *MemoryBody) Bytes() []byte { return b.data }

func (*MemoryBody) isBody() {}

// FileBody is a body spooled through BodyFiles. Closing it removes the file.
type FileBody struct {
	files  BodyFiles
	name   string
	size   int64
	rc     io.ReadCloser
	closed bool
}

func (b *FileBody) Read(p []byte) (int, error) {
	if b.closed {
		return 0, io.ErrClosedPipe
	}
	if b.rc == nil {
		rc, err := b.files.Open(b.name)
		if err != nil {
			return 0, err
		}
		b.rc = rc
	}
	return b.rc.Read(p)
}

// Close releases the reader and removes the spooled file. It is idempotent.
func (b *FileBody) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	var errs []error
	if b.rc != nil {
		errs = append(errs, b.rc.Close())
	}
	errs = append(errs, b.files.Remove(b.name))
	return errors.Join(errs...)
}

func (b *FileBody) Size() int64 { return b.size }

// Name returns the spool file name.
func (b *FileBody) Name() string { return b.name }

func (*FileBody) isBody() {}
