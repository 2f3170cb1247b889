package exchange

import (
	"encoding/json"
	"io"
)

// ResponseBody produces response content. A value must also implement one of
// FixedBody, StreamBody or RenderBody; the choice drives fixed-length vs
// chunked framing.
type ResponseBody interface {
	// ContentType returns the media type, or "" to omit the header.
	ContentType() string
}

// FixedBody is written with Content-Length.
type FixedBody interface {
	ResponseBody
	Bytes() []byte
}

// StreamBody is opened right before the head is written and sent chunked.
type StreamBody interface {
	ResponseBody
	Open() (io.ReadCloser, error)
}

// RenderBody renders into the connection and is sent chunked.
type RenderBody interface {
	ResponseBody
	Render(w io.Writer) error
}

const (
	contentTypeText = "text/plain; charset=utf-8"
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

type fixedBody struct {
	contentType string
	data        []byte
}

func (b fixedBody) ContentType() string { return b.contentType }
func (b fixedBody) Bytes() []byte       { return b.data }

type streamBody struct {
	contentType string
	open        func() (io.ReadCloser, error)
}

func (b streamBody) ContentType() string          { return b.contentType }
func (b streamBody) Open() (io.ReadCloser, error) { return b.open() }

type renderBody struct {
	contentType string
	render      func(io.Writer) error
}

func (b renderBody) ContentType() string      { return b.contentType }
func (b renderBody) Render(w io.Writer) error { return b.render(w) }

// Text is a UTF-8 plain-text body.
func Text(s string) FixedBody {
	return fixedBody{contentType: contentTypeText, data: []byte(s)}
}

// HTML is a UTF-8 HTML body.
func HTML(s string) FixedBody {
	return fixedBody{contentType: contentTypeHTML, data: []byte(s)}
}

// Bytes is a fixed body with an explicit content type.
func Bytes(contentType string, data []byte) FixedBody {
	return fixedBody{contentType: contentType, data: data}
}

// Empty is a zero-length body without a content type.
func Empty() FixedBody {
	return fixedBody{}
}

// JSON encodes v while the response is written.
func JSON(v any) RenderBody {
	return renderBody{
		contentType: contentTypeJSON,
		render: func(w io.Writer) error {
			return json.NewEncoder(w).Encode(v)
		},
	}
}

// Stream sends the reader returned by open, which is closed after writing.
func Stream(contentType string, open func() (io.ReadCloser, error)) StreamBody {
	if open == nil {
		panic("Stream: nil open func")
	}
	return streamBody{contentType: contentType, open: open}
}

// Render delegates body production to fn.
func Render(contentType string, fn func(io.Writer) error) RenderBody {
	if fn == nil {
		panic("Render: nil render func")
	}
	return renderBody{contentType: contentType, render: fn}
}
