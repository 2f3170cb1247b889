package exchange

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/dmitrymomot/wirehttp/pkg/attr"
)

const (
	proto10 = "HTTP/1.0"
	proto11 = "HTTP/1.1"
)

// State is the outcome of the parse phase.
type State int

const (
	// StatePending means ReadRequest has not run yet.
	StatePending State = iota
	// StateReady means the request parsed and may be handled.
	StateReady
	// StateRejected means parsing failed and an error response is staged.
	StateRejected
	// StateAborted means the transport failed; nothing will be written.
	StateAborted
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	case StateRejected:
		return "rejected"
	case StateAborted:
		return "aborted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Handler processes one exchange.
type Handler interface {
	Handle(ex *Exchange) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ex *Exchange) error

func (f HandlerFunc) Handle(ex *Exchange) error { return f(ex) }

// Exchange is one request/response cycle over a connection. It is not safe
// for concurrent use; a single goroutine drives it through ReadRequest, Run
// and WriteResponse, each of which runs at most once.
type Exchange struct {
	engine *Engine
	conn   io.ReadWriter
	remote string
	ctx    context.Context

	buf   *buffer
	pos   int
	state State
	err   error

	method Method
	target string
	path   string
	query  *Query
	proto  string
	header *Header
	body   Body

	status    int
	respHdr   *Header
	respBody  ResponseBody
	processed bool
	closeConn bool
	written   bool
	ran       bool
	reported  bool

	attrs          attr.Map
	sessionPresent bool
	listener       func(*Exchange)
}

// Method returns the request method.
func (ex *Exchange) Method() Method { return ex.method }

// Target returns the raw request target as received.
func (ex *Exchange) Target() string { return ex.target }

// Path returns the percent-decoded path.
func (ex *Exchange) Path() string { return ex.path }

// Query returns the decoded query parameters.
func (ex *Exchange) Query() *Query { return ex.query }

// QueryParam returns the first value of a query parameter.
func (ex *Exchange) QueryParam(key string) string { return ex.query.Get(key) }

// QueryParams returns every value of a query parameter.
func (ex *Exchange) QueryParams(key string) []string { return ex.query.Values(key) }

// Proto returns the request version, HTTP/1.1 or HTTP/1.0.
func (ex *Exchange) Proto() string { return ex.proto }

// Header returns the first value of a request header.
func (ex *Exchange) Header(name HeaderName) string { return ex.header.Get(name) }

// Headers returns the request headers.
func (ex *Exchange) Headers() *Header { return ex.header }

// Body returns the request body. It is never nil on a ready exchange.
func (ex *Exchange) Body() Body { return ex.body }

// RemoteAddr returns the peer address when the transport exposes one.
func (ex *Exchange) RemoteAddr() string { return ex.remote }

// State returns the parse outcome.
func (ex *Exchange) State() State { return ex.state }

// Err returns the transport error that aborted the exchange, if any.
func (ex *Exchange) Err() error { return ex.err }

// Context returns the exchange context.
func (ex *Exchange) Context() context.Context { return ex.ctx }

// SetContext replaces the exchange context.
func (ex *Exchange) SetContext(ctx context.Context) {
	if ctx == nil {
		panic("SetContext: nil context")
	}
	ex.ctx = ctx
}

// BodyBytes reads the whole request body.
func (ex *Exchange) BodyBytes() ([]byte, error) {
	switch b := ex.body.(type) {
	case nil:
		return nil, nil
	case *MemoryBody:
		return b.Bytes(), nil
	default:
		return io.ReadAll(b)
	}
}

// Form decodes an application/x-www-form-urlencoded body with the query
// rules. Other content types yield ErrNotForm; malformed bodies yield
// ErrMalformedForm, which responds 400 when returned from a handler.
func (ex *Exchange) Form() (*Query, error) {
	mediaType, _, err := mime.ParseMediaType(ex.header.Get(HeaderContentType))
	if err != nil || !strings.EqualFold(mediaType, contentTypeForm) {
		return nil, ErrNotForm
	}
	data, err := ex.BodyBytes()
	if err != nil {
		return nil, err
	}
	q, err := ParseQuery(string(data))
	if err != nil {
		return nil, ErrMalformedForm
	}
	return q, nil
}

// Status returns the staged response status, 0 when unset.
func (ex *Exchange) Status() int { return ex.status }

// SetStatus stages the response status and marks the exchange processed.
func (ex *Exchange) SetStatus(status int) {
	ex.status = status
	ex.processed = true
}

// ResponseHeaders returns the mutable response headers.
func (ex *Exchange) ResponseHeaders() *Header { return ex.respHdr }

// ResponseBody returns the staged response body.
func (ex *Exchange) ResponseBody() ResponseBody { return ex.respBody }

// Respond stages status and body and marks the exchange processed. A nil
// body sends no content.
func (ex *Exchange) Respond(status int, body ResponseBody) {
	ex.status = status
	ex.respBody = body
	ex.processed = true
}

// Processed reports whether a handler produced a response.
func (ex *Exchange) Processed() bool { return ex.processed }

// MarkProcessed flags the exchange as handled without changing the response.
func (ex *Exchange) MarkProcessed() { ex.processed = true }

// SetResponseListener registers fn to run right before the response head is
// serialized. A later call replaces the earlier listener.
func (ex *Exchange) SetResponseListener(fn func(*Exchange)) { ex.listener = fn }

// SessionPresent reports whether a session was loaded or created.
func (ex *Exchange) SessionPresent() bool { return ex.sessionPresent }

// SetSessionPresent records session presence.
func (ex *Exchange) SetSessionPresent(v bool) { ex.sessionPresent = v }

// Attrs returns the exchange attribute map.
func (ex *Exchange) Attrs() attr.Map {
	if ex.attrs == nil {
		ex.attrs = attr.Map{}
	}
	return ex.attrs
}

// Attr reads a typed exchange attribute.
func Attr[T any](ex *Exchange, key attr.Key[T]) (T, bool) {
	return attr.Lookup(ex.Attrs(), key)
}

// SetAttr stores a typed exchange attribute.
func SetAttr[T any](ex *Exchange, key attr.Key[T], value T) {
	attr.Set(ex.Attrs(), key, value)
}

// AttrOrInit returns the attribute, creating it with init on first access.
func AttrOrInit[T any](ex *Exchange, key attr.Key[T], init func() T) T {
	return attr.GetOrInit(ex.Attrs(), key, init)
}

// Serviceable reports whether a response can be written: the request either
// parsed or was rejected with a staged error response.
func (ex *Exchange) Serviceable() bool {
	return ex.state == StateReady || ex.state == StateRejected
}

// KeepAlive reports whether the connection may carry another exchange.
func (ex *Exchange) KeepAlive() bool {
	return ex.Serviceable() && ex.written && !ex.closeConn
}

// Leftover returns bytes read past the end of this request. The slice
// aliases the buffer and is valid until Close.
func (ex *Exchange) Leftover() []byte {
	if ex.buf == nil || ex.state == StateAborted {
		return nil
	}
	return ex.buf.data[ex.pos:ex.buf.end]
}

// Run invokes h on a ready exchange. Panics and returned errors replace the
// response with a 500, unless the error is a Responder, which responds
// itself. An exchange left unprocessed answers 204.
func (ex *Exchange) Run(h Handler) error {
	if ex.state != StateReady || ex.ran {
		return ErrNotReady
	}
	ex.ran = true

	err := ex.invoke(h)
	if err != nil {
		var r Responder
		if errors.As(err, &r) {
			ex.resetResponse()
			r.Respond(ex)
			ex.processed = true
		} else {
			ex.fail(KindHandler, err)
		}
	}
	if !ex.processed {
		ex.Respond(StatusNoContent, nil)
	}
	return err
}

func (ex *Exchange) invoke(h Handler) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if e, ok := rec.(error); ok {
				err = fmt.Errorf("%w: %w", ErrPanic, e)
			} else {
				err = fmt.Errorf("%w: %v", ErrPanic, rec)
			}
		}
	}()
	return h.Handle(ex)
}

func (ex *Exchange) resetResponse() {
	ex.respHdr.reset()
	ex.status = 0
	ex.respBody = nil
}

// Close releases the request body, removing any spooled file.
func (ex *Exchange) Close() error {
	if ex.body == nil {
		return nil
	}
	return ex.body.Close()
}

func (ex *Exchange) report(kind Kind, status int, err error) {
	if ex.reported {
		return
	}
	ex.reported = true
	ex.engine.diag.Record(Event{
		Kind:   kind,
		Status: status,
		Method: ex.method,
		Target: ex.target,
		Remote: ex.remote,
		Err:    err,
	})
}
