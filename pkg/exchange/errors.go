package exchange

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady is returned when the handler or write phase runs before a
	// request was parsed successfully.
	ErrNotReady = errors.New("exchange: request not ready")

	// ErrNotServiceable is returned by WriteResponse on an aborted exchange.
	ErrNotServiceable = errors.New("exchange: exchange is not serviceable")

	// ErrAlreadyWritten is returned when WriteResponse runs a second time.
	ErrAlreadyWritten = errors.New("exchange: response already written")

	// ErrInvalidEncoding reports a malformed percent-encoded string.
	ErrInvalidEncoding = errors.New("exchange: invalid percent-encoding")

	// ErrNotForm is returned by Form for bodies that are not form-urlencoded.
	ErrNotForm = errors.New("exchange: body is not application/x-www-form-urlencoded")

	// ErrUnknownBody is reported when a ResponseBody implements none of
	// FixedBody, StreamBody or RenderBody.
	ErrUnknownBody = errors.New("exchange: unsupported response body")

	// ErrPanic wraps a value recovered from a handler panic.
	ErrPanic = errors.New("exchange: handler panicked")

	errBufferFull = errors.New("exchange: buffer limit reached")
)

// Responder is implemented by errors that produce their own response. When a
// handler returns one, Run invokes Respond instead of the generic 500 path.
type Responder interface {
	error
	Respond(ex *Exchange)
}

// HTTPError is a Responder carrying a status and a plain-text message.
type HTTPError struct {
	Status  int
	Message string
}

func (e HTTPError) Error() string {
	return fmt.Sprintf("exchange: %d %s", e.Status, e.Message)
}

// Respond writes the status and message as text/plain.
func (e HTTPError) Respond(ex *Exchange) {
	ex.Respond(e.Status, Text(e.Message))
}

// NewHTTPError builds an HTTPError; an empty message defaults to the reason phrase.
func NewHTTPError(status int, message string) HTTPError {
	if message == "" {
		message = StatusText(status)
	}
	return HTTPError{Status: status, Message: message}
}

// ErrMalformedForm is returned by Form when the body cannot be decoded.
var ErrMalformedForm = HTTPError{Status: StatusBadRequest, Message: "Invalid form body."}

// protocolError stages an engine-generated response during parsing.
type protocolError struct {
	status int
	body   string
	kind   Kind
	cause  error
}

func (e *protocolError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("exchange: %d %s: %v", e.status, StatusText(e.status), e.cause)
	}
	return fmt.Sprintf("exchange: %d %s", e.status, StatusText(e.status))
}

func (e *protocolError) Unwrap() error {
	return e.cause
}

var (
	errInvalidLine = &protocolError{status: StatusBadRequest, body: bodyInvalidRequestLine, kind: KindProtocol}
	errInvalidHead = &protocolError{status: StatusBadRequest, body: bodyInvalidHeaders, kind: KindProtocol}
	errVersion     = &protocolError{status: StatusHTTPVersionNotSupported, kind: KindProtocol}
	errURITooLong  = &protocolError{status: StatusRequestURITooLong, kind: KindLimit}
	errHeadTooBig  = &protocolError{status: StatusRequestHeaderFieldsTooLarge, kind: KindLimit}
	errBodyTooBig  = &protocolError{status: StatusRequestEntityTooLarge, body: bodyTooLarge, kind: KindLimit}
	errChunkedBody = &protocolError{status: StatusNotImplemented, kind: KindProtocol}
)

func spoolError(err error) error {
	return &protocolError{status: StatusInternalServerError, body: bodyInternalError, kind: KindSpool, cause: err}
}
