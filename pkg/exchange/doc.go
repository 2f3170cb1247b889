// Package exchange implements a hand-rolled HTTP/1.1 request/response cycle
// over any io.ReadWriter, without net/http.
//
// An Exchange owns one growable read buffer and moves through three phases,
// each of which runs at most once:
//
//   - ReadRequest parses the request line, percent-decoded path and query,
//     headers and body. Parsing is byte-driven, so a peer delivering one
//     byte per read produces the same result as one delivering everything at
//     once.
//   - Run invokes a Handler, turning errors and panics into a 500 response
//     unless the error is a Responder.
//   - WriteResponse serializes the status line, Date, handler headers and a
//     fixed-length or chunked body.
//
// # Error model
//
// Protocol violations never reach handlers. They stage a response during
// parsing and close the connection afterwards:
//
//	400 "Invalid request line."      malformed request line, path or query
//	400 "Invalid request headers."   malformed header name or value
//	414 (empty)                      request line exceeds the buffer limit
//	431 (empty)                      header block exceeds the buffer limit
//	413 "...maximum allowed limit."  body too large or Content-Length overflow
//	501 (empty)                      Transfer-Encoding on a request
//	505 (empty)                      missing or unsupported version
//
// Transport failures abort the exchange silently: nothing is written and
// Serviceable reports false. Every abnormal termination is reported once to
// the engine's Diagnostics sink.
//
// # Usage
//
//	engine := exchange.NewEngine(
//		exchange.WithConfig(cfg),
//		exchange.WithBodyFiles(spoolDir),
//	)
//
//	res := engine.Serve(ctx, conn, exchange.HandlerFunc(func(ex *exchange.Exchange) error {
//		ex.Respond(exchange.StatusOK, exchange.Text("hello "+ex.QueryParam("name")))
//		return nil
//	}), nil)
//
// Bodies larger than the buffer limit are spooled through BodyFiles when one
// is configured and removed when the exchange closes.
package exchange
