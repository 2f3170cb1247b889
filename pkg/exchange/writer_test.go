package exchange_test

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wirehttp/pkg/exchange"
)

func respondWith(status int, body exchange.ResponseBody) exchange.Handler {
	return exchange.HandlerFunc(func(ex *exchange.Exchange) error {
		ex.Respond(status, body)
		return nil
	})
}

func TestWriteFixedBody(t *testing.T) {
	t.Parallel()
	engine, rec := newEngine(t)

	h := exchange.HandlerFunc(func(ex *exchange.Exchange) error {
		ex.ResponseHeaders().Set("X-Trace", "1")
		ex.ResponseHeaders().Add("Vary", "Accept")
		ex.Respond(exchange.StatusOK, exchange.Text("hello"))
		return nil
	})
	out, res := roundTrip(engine, "GET / HTTP/1.1\r\nHost: test\r\n\r\n", h)

	assert.Equal(t, response("200 OK", []string{
		"X-Trace: 1",
		"Vary: Accept",
		"Content-Type: text/plain; charset=utf-8",
		"Content-Length: 5",
	}, "hello"), out)
	assert.True(t, res.KeepAlive)
	assert.Empty(t, rec.Events())
}

func TestWriteHandlerContentType(t *testing.T) {
	t.Parallel()
	engine, _ := newEngine(t)

	h := exchange.HandlerFunc(func(ex *exchange.Exchange) error {
		ex.ResponseHeaders().Set(exchange.HeaderContentType, "text/csv")
		ex.Respond(exchange.StatusOK, exchange.Text("a,b"))
		return nil
	})
	out, _ := roundTrip(engine, "GET / HTTP/1.1\r\n\r\n", h)

	assert.Equal(t, response("200 OK", []string{
		"Content-Type: text/csv",
		"Content-Length: 3",
	}, "a,b"), out)
}

func TestWriteEngineOwnedAndUnsafeHeaders(t *testing.T) {
	t.Parallel()
	engine, _ := newEngine(t)

	h := exchange.HandlerFunc(func(ex *exchange.Exchange) error {
		hdr := ex.ResponseHeaders()
		hdr.Set(exchange.HeaderContentLength, "999")
		hdr.Set(exchange.HeaderConnection, "upgrade")
		hdr.Set(exchange.HeaderDate, "yesterday")
		hdr.Set(exchange.HeaderTransferEncoding, "gzip")
		hdr.Set("Bad Name", "x")
		hdr.Set("X-Evil", "a\r\nInjected: 1")
		ex.Respond(exchange.StatusOK, exchange.Empty())
		return nil
	})
	out, _ := roundTrip(engine, "GET / HTTP/1.1\r\n\r\n", h)

	assert.Equal(t, response("200 OK", []string{
		"X-Evil: aInjected: 1",
		"Content-Length: 0",
	}, ""), out)
}

func TestWriteChunked(t *testing.T) {
	t.Parallel()
	engine, _ := newEngine(t)

	t.Run("stream", func(t *testing.T) {
		body := exchange.Stream("text/plain", func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("hello world")), nil
		})
		out, res := roundTrip(engine, "GET / HTTP/1.1\r\n\r\n", respondWith(exchange.StatusOK, body))
		assert.Equal(t, response("200 OK", []string{
			"Content-Type: text/plain",
			"Transfer-Encoding: chunked",
		}, "b\r\nhello world\r\n0\r\n\r\n"), out)
		assert.True(t, res.KeepAlive)
	})

	t.Run("render", func(t *testing.T) {
		body := exchange.Render("text/html", func(w io.Writer) error {
			if _, err := io.WriteString(w, "<p>"); err != nil {
				return err
			}
			_, err := io.WriteString(w, "hi</p>")
			return err
		})
		out, _ := roundTrip(engine, "GET / HTTP/1.1\r\n\r\n", respondWith(exchange.StatusOK, body))
		assert.Equal(t, response("200 OK", []string{
			"Content-Type: text/html",
			"Transfer-Encoding: chunked",
		}, "3\r\n<p>\r\n6\r\nhi</p>\r\n0\r\n\r\n"), out)
	})

	t.Run("json", func(t *testing.T) {
		body := exchange.JSON(map[string]int{"n": 1})
		out, _ := roundTrip(engine, "GET / HTTP/1.1\r\n\r\n", respondWith(exchange.StatusOK, body))
		assert.Equal(t, response("200 OK", []string{
			"Content-Type: application/json",
			"Transfer-Encoding: chunked",
		}, "8\r\n{\"n\":1}\n\r\n0\r\n\r\n"), out)
	})

	t.Run("HTTP/1.0 is close-delimited", func(t *testing.T) {
		body := exchange.Render("text/plain", func(w io.Writer) error {
			_, err := io.WriteString(w, "raw")
			return err
		})
		out, res := roundTrip(engine, "GET / HTTP/1.0\r\nConnection: keep-alive\r\n\r\n", respondWith(exchange.StatusOK, body))
		assert.Equal(t, response("200 OK", []string{
			"Content-Type: text/plain",
			"Connection: close",
		}, "raw"), out)
		assert.False(t, res.KeepAlive)
	})

	t.Run("render failure after head closes", func(t *testing.T) {
		engine, rec := newEngine(t)
		body := exchange.Render("text/plain", func(io.Writer) error { return errors.New("template broke") })
		_, res := roundTrip(engine, "GET / HTTP/1.1\r\n\r\n", respondWith(exchange.StatusOK, body))
		assert.False(t, res.KeepAlive)
		events := rec.Events()
		require.Len(t, events, 1)
		assert.Equal(t, exchange.KindWrite, events[0].Kind)
	})

	t.Run("stream open failure is 500", func(t *testing.T) {
		engine, rec := newEngine(t)
		body := exchange.Stream("text/plain", func() (io.ReadCloser, error) {
			return nil, errors.New("gone")
		})
		out, res := roundTrip(engine, "GET / HTTP/1.1\r\n\r\n", respondWith(exchange.StatusOK, body))
		assert.True(t, strings.HasPrefix(out, "HTTP/1.1 500 Internal Server Error\r\n"))
		assert.Contains(t, out, "\r\nConnection: close\r\n\r\nInternal Server Error")
		assert.False(t, res.KeepAlive)
		require.Len(t, rec.Events(), 1)
		assert.Equal(t, exchange.KindHandler, rec.Events()[0].Kind)
	})
}

func TestWriteHead(t *testing.T) {
	t.Parallel()
	engine, _ := newEngine(t)

	out, res := roundTrip(engine, "HEAD / HTTP/1.1\r\n\r\n", respondWith(exchange.StatusOK, exchange.Text("hello")))
	assert.Equal(t, response("200 OK", []string{
		"Content-Type: text/plain; charset=utf-8",
		"Content-Length: 5",
	}, ""), out)
	assert.True(t, res.KeepAlive)

	opened := false
	stream := exchange.Stream("text/plain", func() (io.ReadCloser, error) {
		opened = true
		return io.NopCloser(strings.NewReader("data")), nil
	})
	out, _ = roundTrip(engine, "HEAD / HTTP/1.1\r\n\r\n", respondWith(exchange.StatusOK, stream))
	assert.Equal(t, response("200 OK", []string{
		"Content-Type: text/plain",
		"Transfer-Encoding: chunked",
	}, ""), out)
	assert.True(t, opened)
}

func TestWriteNoContent(t *testing.T) {
	t.Parallel()
	engine, _ := newEngine(t)

	t.Run("handler produced nothing", func(t *testing.T) {
		out, res := roundTrip(engine, "GET / HTTP/1.1\r\n\r\n", noop)
		assert.Equal(t, response("204 No Content", nil, ""), out)
		assert.True(t, res.KeepAlive)
	})

	t.Run("204 and 304 drop body and length", func(t *testing.T) {
		for _, status := range []int{exchange.StatusNoContent, exchange.StatusNotModified} {
			out, _ := roundTrip(engine, "GET / HTTP/1.1\r\n\r\n", respondWith(status, exchange.Text("ignored")))
			assert.Equal(t, response(fmt.Sprintf("%d %s", status, exchange.StatusText(status)), nil, ""), out)
		}
	})

	t.Run("status without body", func(t *testing.T) {
		h := exchange.HandlerFunc(func(ex *exchange.Exchange) error {
			ex.SetStatus(exchange.StatusAccepted)
			return nil
		})
		out, _ := roundTrip(engine, "POST / HTTP/1.1\r\n\r\n", h)
		assert.Equal(t, response("202 Accepted", []string{"Content-Length: 0"}, ""), out)
	})
}

func TestRunErrors(t *testing.T) {
	t.Parallel()

	internal := response("500 Internal Server Error", []string{
		"Content-Type: text/plain; charset=utf-8",
		"Content-Length: 21",
		"Connection: close",
	}, "Internal Server Error")

	t.Run("returned error", func(t *testing.T) {
		engine, rec := newEngine(t)
		h := exchange.HandlerFunc(func(ex *exchange.Exchange) error {
			ex.ResponseHeaders().Set("X-Partial", "1")
			ex.Respond(exchange.StatusOK, exchange.Text("partial"))
			return errors.New("db down")
		})
		out, res := roundTrip(engine, "GET / HTTP/1.1\r\n\r\n", h)
		assert.Equal(t, internal, out)
		assert.False(t, res.KeepAlive)

		events := rec.Events()
		require.Len(t, events, 1)
		assert.Equal(t, exchange.KindHandler, events[0].Kind)
		assert.Equal(t, exchange.StatusInternalServerError, events[0].Status)
		assert.ErrorContains(t, events[0].Err, "db down")
	})

	t.Run("panic", func(t *testing.T) {
		engine, rec := newEngine(t)
		h := exchange.HandlerFunc(func(*exchange.Exchange) error { panic(errors.New("nil map")) })
		out, _ := roundTrip(engine, "GET / HTTP/1.1\r\n\r\n", h)
		assert.Equal(t, internal, out)
		require.Len(t, rec.Events(), 1)
		assert.ErrorIs(t, rec.Events()[0].Err, exchange.ErrPanic)
	})

	t.Run("responder error", func(t *testing.T) {
		engine, rec := newEngine(t)
		h := exchange.HandlerFunc(func(ex *exchange.Exchange) error {
			ex.ResponseHeaders().Set("X-Partial", "1")
			return fmt.Errorf("lookup: %w", exchange.NewHTTPError(exchange.StatusNotFound, "no such user"))
		})
		out, res := roundTrip(engine, "GET / HTTP/1.1\r\n\r\n", h)
		assert.Equal(t, response("404 Not Found", []string{
			"Content-Type: text/plain; charset=utf-8",
			"Content-Length: 12",
		}, "no such user"), out)
		assert.True(t, res.KeepAlive)
		assert.Empty(t, rec.Events())
	})

	t.Run("default message", func(t *testing.T) {
		err := exchange.NewHTTPError(exchange.StatusForbidden, "")
		assert.Equal(t, "Forbidden", err.Message)
	})
}

func TestPhasesRunOnce(t *testing.T) {
	t.Parallel()
	engine, _ := newEngine(t)

	ex, c := parse(engine, "GET / HTTP/1.1\r\n\r\n")
	require.Equal(t, exchange.StateReady, ex.ReadRequest())

	calls := 0
	h := exchange.HandlerFunc(func(*exchange.Exchange) error {
		calls++
		return nil
	})
	require.NoError(t, ex.Run(h))
	assert.ErrorIs(t, ex.Run(h), exchange.ErrNotReady)
	assert.Equal(t, 1, calls)

	require.NoError(t, ex.WriteResponse())
	n := c.out.Len()
	assert.ErrorIs(t, ex.WriteResponse(), exchange.ErrAlreadyWritten)
	assert.Equal(t, n, c.out.Len())
}

func TestResponseListener(t *testing.T) {
	t.Parallel()
	engine, _ := newEngine(t)

	h := exchange.HandlerFunc(func(ex *exchange.Exchange) error {
		ex.SetResponseListener(func(ex *exchange.Exchange) {
			ex.ResponseHeaders().Set("X-Status", fmt.Sprint(ex.Status()))
		})
		ex.Respond(exchange.StatusCreated, exchange.Text("made"))
		return nil
	})
	out, _ := roundTrip(engine, "POST / HTTP/1.1\r\n\r\n", h)
	assert.Equal(t, response("201 Created", []string{
		"X-Status: 201",
		"Content-Type: text/plain; charset=utf-8",
		"Content-Length: 4",
	}, "made"), out)
}

func TestRejectedResponseKeepsNoHandlerState(t *testing.T) {
	t.Parallel()
	engine, _ := newEngine(t)

	called := false
	h := exchange.HandlerFunc(func(*exchange.Exchange) error {
		called = true
		return nil
	})
	out, _ := roundTrip(engine, "GET /<x> HTTP/1.1\r\n\r\n", h)
	assert.False(t, called)
	assert.Equal(t, badRequestLine(), out)
}
