package exchange_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wirehttp/pkg/exchange"
	"github.com/dmitrymomot/wirehttp/pkg/spool"
)

const tooLargeBody = "Request body size exceeds the server's maximum allowed limit."

func tooLarge() string {
	return response("413 Content Too Large", []string{
		"Content-Type: text/plain; charset=utf-8",
		"Content-Length: 61",
		"Connection: close",
	}, tooLargeBody)
}

func TestLimits(t *testing.T) {
	t.Parallel()

	t.Run("request line fits exactly", func(t *testing.T) {
		engine, _ := newEngine(t, smallBuffers(16, 64, 1024))
		raw := "GET /" + strings.Repeat("a", 64-len("GET / HTTP/1.1\r\n\r\n")) + " HTTP/1.1\r\n\r\n"
		require.Len(t, raw, 64)

		ex, _ := parse(engine, raw)
		assert.Equal(t, exchange.StateReady, ex.State())
	})

	t.Run("over-long path is 414", func(t *testing.T) {
		engine, rec := newEngine(t, smallBuffers(16, 64, 1024))
		out, res := roundTrip(engine, "GET /"+strings.Repeat("a", 64)+" HTTP/1.1\r\nHost: test\r\n\r\n", echoPath)

		assert.Equal(t, emptyClose("414 URI Too Long"), out)
		assert.False(t, res.KeepAlive)
		events := rec.Events()
		require.Len(t, events, 1)
		assert.Equal(t, exchange.KindLimit, events[0].Kind)
		assert.Equal(t, exchange.StatusRequestURITooLong, events[0].Status)
	})

	t.Run("over-long query is 414", func(t *testing.T) {
		engine, _ := newEngine(t, smallBuffers(16, 64, 1024))
		out, _ := roundTrip(engine, "GET /?q="+strings.Repeat("%41", 30)+" HTTP/1.1\r\n\r\n", echoPath)
		assert.Equal(t, emptyClose("414 URI Too Long"), out)
	})

	t.Run("header block is 431", func(t *testing.T) {
		engine, _ := newEngine(t, smallBuffers(16, 64, 1024))
		raw := "GET / HTTP/1.1\r\n" + strings.Repeat("X-A: b\r\n", 10) + "\r\n"
		out, res := roundTrip(engine, raw, echoPath)
		assert.Equal(t, emptyClose("431 Request Header Fields Too Large"), out)
		assert.False(t, res.KeepAlive)
	})

	t.Run("declared body above limit is 413", func(t *testing.T) {
		engine, _ := newEngine(t, smallBuffers(16, 128, 10))
		out, _ := roundTrip(engine, "POST / HTTP/1.1\r\nContent-Length: 11\r\n\r\nhello world", echoPath)
		assert.Equal(t, tooLarge(), out)
	})

	t.Run("content-length overflow is 413", func(t *testing.T) {
		engine, _ := newEngine(t)
		out, _ := roundTrip(engine, "POST / HTTP/1.1\r\nContent-Length: 99999999999999999999999\r\n\r\n", echoPath)
		assert.Equal(t, tooLarge(), out)
	})

	t.Run("body beyond buffer without spool is 413", func(t *testing.T) {
		engine, _ := newEngine(t, smallBuffers(16, 64, 1024))
		raw := "POST / HTTP/1.1\r\nContent-Length: 200\r\n\r\n" + strings.Repeat("x", 200)
		out, _ := roundTrip(engine, raw, echoPath)
		assert.Equal(t, tooLarge(), out)
	})

	t.Run("differing content-length values", func(t *testing.T) {
		engine, _ := newEngine(t)
		out, _ := roundTrip(engine, "POST / HTTP/1.1\r\nContent-Length: 1\r\nContent-Length: 2\r\n\r\nab", echoPath)
		assert.Equal(t, badRequestHeaders(), out)
	})

	t.Run("repeated equal content-length values", func(t *testing.T) {
		engine, _ := newEngine(t)
		ex, _ := parse(engine, "POST / HTTP/1.1\r\nContent-Length: 2\r\nContent-Length: 2\r\n\r\nab")
		require.Equal(t, exchange.StateReady, ex.State())
		assert.Equal(t, int64(2), ex.Body().Size())
	})

	t.Run("malformed content-length", func(t *testing.T) {
		engine, _ := newEngine(t)
		for _, v := range []string{"1a", "-1", "", "1 2", "+5"} {
			out, _ := roundTrip(engine, "POST / HTTP/1.1\r\nContent-Length: "+v+"\r\n\r\n", echoPath)
			assert.Equal(t, badRequestHeaders(), out, "value %q", v)
		}
	})

	t.Run("transfer-encoding is 501", func(t *testing.T) {
		engine, _ := newEngine(t)
		out, _ := roundTrip(engine, "POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n0\r\n\r\n", echoPath)
		assert.Equal(t, emptyClose("501 Not Implemented"), out)
	})
}

func TestMemoryBody(t *testing.T) {
	t.Parallel()
	engine, _ := newEngine(t)

	t.Run("content-length body", func(t *testing.T) {
		ex, _ := parse(engine, "POST /submit HTTP/1.1\r\nContent-Length: 5\r\n\r\nhello")
		require.Equal(t, exchange.StateReady, ex.State())

		body, ok := ex.Body().(*exchange.MemoryBody)
		require.True(t, ok)
		assert.Equal(t, int64(5), body.Size())

		data, err := io.ReadAll(ex.Body())
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
	})

	t.Run("absent content-length is empty", func(t *testing.T) {
		ex, _ := parse(engine, "GET / HTTP/1.1\r\n\r\n")
		require.Equal(t, exchange.StateReady, ex.State())
		data, err := ex.BodyBytes()
		require.NoError(t, err)
		assert.Empty(t, data)
		assert.Equal(t, int64(0), ex.Body().Size())
	})

	t.Run("body truncated by EOF aborts", func(t *testing.T) {
		ex, c := parse(engine, "POST / HTTP/1.1\r\nContent-Length: 10\r\n\r\nhello")
		assert.Equal(t, exchange.StateAborted, ex.State())
		assert.ErrorIs(t, ex.WriteResponse(), exchange.ErrNotServiceable)
		assert.Zero(t, c.out.Len())
	})
}

func TestForm(t *testing.T) {
	t.Parallel()
	engine, _ := newEngine(t)

	form := func(ct, body string) string {
		return fmt.Sprintf("POST /f HTTP/1.1\r\nContent-Type: %s\r\nContent-Length: %d\r\n\r\n%s", ct, len(body), body)
	}

	t.Run("urlencoded", func(t *testing.T) {
		ex, _ := parse(engine, form("application/x-www-form-urlencoded; charset=utf-8", "a=1&b=x+y&a=2"))
		require.Equal(t, exchange.StateReady, ex.State())
		q, err := ex.Form()
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2"}, q.Values("a"))
		assert.Equal(t, "x y", q.Get("b"))
	})

	t.Run("other content type", func(t *testing.T) {
		ex, _ := parse(engine, form("application/json", "{}"))
		_, err := ex.Form()
		assert.ErrorIs(t, err, exchange.ErrNotForm)
	})

	t.Run("malformed body responds 400", func(t *testing.T) {
		h := exchange.HandlerFunc(func(ex *exchange.Exchange) error {
			_, err := ex.Form()
			return err
		})
		out, _ := roundTrip(engine, form("application/x-www-form-urlencoded", "a=%zz"), h)
		assert.Equal(t, response("400 Bad Request", []string{
			"Content-Type: text/plain; charset=utf-8",
			"Content-Length: 18",
		}, "Invalid form body."), out)
	})
}

func spoolEngine(t *testing.T) (*exchange.Engine, *spool.Dir, *recorder) {
	t.Helper()
	dir, err := spool.NewDir(t.TempDir())
	require.NoError(t, err)
	engine, rec := newEngine(t, smallBuffers(16, 64, 1<<20), exchange.WithBodyFiles(dir))
	return engine, dir, rec
}

func spoolFiles(t *testing.T, dir *spool.Dir) []string {
	t.Helper()
	entries, err := os.ReadDir(dir.BaseDir())
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestSpooledBody(t *testing.T) {
	t.Parallel()

	payload := strings.Repeat("0123456789", 100)
	raw := fmt.Sprintf("POST /upload HTTP/1.1\r\nContent-Length: %d\r\n\r\n%s", len(payload), payload)

	t.Run("spills and removes the file", func(t *testing.T) {
		engine, dir, _ := spoolEngine(t)

		var seen string
		var spoolPath string
		h := exchange.HandlerFunc(func(ex *exchange.Exchange) error {
			fb, ok := ex.Body().(*exchange.FileBody)
			require.True(t, ok)
			assert.Equal(t, int64(len(payload)), fb.Size())
			spoolPath = filepath.Join(dir.BaseDir(), fb.Name())
			_, err := os.Stat(spoolPath)
			require.NoError(t, err)

			data, err := ex.BodyBytes()
			require.NoError(t, err)
			seen = string(data)
			ex.Respond(exchange.StatusOK, exchange.Text("ok"))
			return nil
		})

		out, res := roundTrip(engine, raw, h)
		assert.Equal(t, payload, seen)
		assert.True(t, strings.HasPrefix(out, "HTTP/1.1 200 OK\r\n"))
		assert.True(t, res.KeepAlive)
		assert.Empty(t, spoolFiles(t, dir))
	})

	t.Run("byte at a time", func(t *testing.T) {
		engine, dir, _ := spoolEngine(t)
		var seen []byte
		h := exchange.HandlerFunc(func(ex *exchange.Exchange) error {
			var err error
			seen, err = ex.BodyBytes()
			return err
		})
		c := newConn(iotest.OneByteReader(strings.NewReader(raw)))
		engine.Serve(context.Background(), c, h, nil)
		assert.Equal(t, payload, string(seen))
		assert.Empty(t, spoolFiles(t, dir))
	})

	t.Run("file removed when handler panics", func(t *testing.T) {
		engine, dir, rec := spoolEngine(t)
		h := exchange.HandlerFunc(func(ex *exchange.Exchange) error {
			require.Len(t, spoolFiles(t, dir), 1)
			panic("boom")
		})

		out, res := roundTrip(engine, raw, h)
		assert.True(t, strings.HasPrefix(out, "HTTP/1.1 500 Internal Server Error\r\n"))
		assert.False(t, res.KeepAlive)
		assert.Empty(t, spoolFiles(t, dir))

		events := rec.Events()
		require.Len(t, events, 1)
		assert.Equal(t, exchange.KindHandler, events[0].Kind)
		assert.ErrorIs(t, events[0].Err, exchange.ErrPanic)
	})

	t.Run("file removed when body is truncated", func(t *testing.T) {
		engine, dir, rec := spoolEngine(t)
		out, _ := roundTrip(engine, raw[:len(raw)-10], echoPath)
		assert.Empty(t, out)
		assert.Empty(t, spoolFiles(t, dir))
		require.Len(t, rec.Events(), 1)
		assert.Equal(t, exchange.KindIO, rec.Events()[0].Kind)
	})

	t.Run("pipelined request after spooled body", func(t *testing.T) {
		engine, _, _ := spoolEngine(t)
		c := newConn(strings.NewReader(raw + "GET /next HTTP/1.1\r\n\r\n"))

		res := engine.Serve(context.Background(), c, noop, nil)
		require.True(t, res.KeepAlive)

		var path string
		h := exchange.HandlerFunc(func(ex *exchange.Exchange) error {
			path = ex.Path()
			return nil
		})
		engine.Serve(context.Background(), c, h, res.Leftover)
		assert.Equal(t, "/next", path)
	})
}

type failingFiles struct{}

func (failingFiles) Create() (string, io.WriteCloser, error) {
	return "", nil, errors.New("disk full")
}
func (failingFiles) Open(string) (io.ReadCloser, error) { return nil, os.ErrNotExist }
func (failingFiles) Remove(string) error                { return nil }

func TestSpoolFailure(t *testing.T) {
	t.Parallel()
	engine, rec := newEngine(t, smallBuffers(16, 64, 1<<20), exchange.WithBodyFiles(failingFiles{}))

	raw := "POST / HTTP/1.1\r\nContent-Length: 100\r\n\r\n" + strings.Repeat("x", 100)
	out, res := roundTrip(engine, raw, echoPath)

	assert.Equal(t, response("500 Internal Server Error", []string{
		"Content-Type: text/plain; charset=utf-8",
		"Content-Length: 21",
		"Connection: close",
	}, "Internal Server Error"), out)
	assert.False(t, res.KeepAlive)

	events := rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, exchange.KindSpool, events[0].Kind)
	assert.ErrorContains(t, events[0].Err, "disk full")
}

func TestPipelining(t *testing.T) {
	t.Parallel()
	engine, _ := newEngine(t)

	first := "POST /a HTTP/1.1\r\nContent-Length: 3\r\n\r\nabc"
	second := "GET /b?x=1 HTTP/1.1\r\n\r\n"
	c := newConn(strings.NewReader(first + second))

	var paths []string
	h := exchange.HandlerFunc(func(ex *exchange.Exchange) error {
		paths = append(paths, ex.Path())
		return nil
	})

	res := engine.Serve(context.Background(), c, h, nil)
	require.True(t, res.KeepAlive)
	assert.Equal(t, second, string(res.Leftover))

	res = engine.Serve(context.Background(), c, h, res.Leftover)
	assert.True(t, res.KeepAlive)
	assert.Empty(t, res.Leftover)
	assert.Equal(t, []string{"/a", "/b"}, paths)

	assert.Equal(t, 2, strings.Count(c.out.String(), "HTTP/1.1 204 No Content\r\n"))
}

// snapshot renders everything a handler can observe about a request.
func snapshot(ex *exchange.Exchange) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %q %q %s\n", ex.Method(), ex.Target(), ex.Path(), ex.Proto())
	for _, k := range ex.Query().Keys() {
		fmt.Fprintf(&b, "q %q=%q\n", k, ex.QueryParams(k))
	}
	for _, f := range ex.Headers().Fields() {
		fmt.Fprintf(&b, "h %s=%q\n", f.Name, f.Value)
	}
	data, err := ex.BodyBytes()
	fmt.Fprintf(&b, "body %q %v\n", data, err)
	return b.String()
}

func TestByteAtATimeMatchesBulk(t *testing.T) {
	t.Parallel()

	requests := []string{
		"GET / HTTP/1.1\r\n\r\n",
		"GET /path/%F0%9F%98%80?key=value1&key=value2&a+b=c%20d HTTP/1.1\r\nHost: test\r\nAccept: */*\r\n\r\n",
		"POST /submit HTTP/1.1\r\nContent-Type: application/x-www-form-urlencoded\r\nContent-Length: 11\r\n\r\nhello=world",
		"\r\nDELETE /items/42 HTTP/1.0\r\nConnection: keep-alive\r\nX-Trace:  abc  \r\n\r\n",
		"GET /" + strings.Repeat("a", 200) + " HTTP/1.1\r\n\r\n",
		"GET / HTTP/1.1\r\n" + strings.Repeat("X-Long: value\r\n", 20) + "\r\n",
		"GET /%C0%80 HTTP/1.1\r\n\r\n",
		"GET /bad header HTTP/1.1\r\n\r\n",
		"GET / HTTP/1.1\r\nBad Header: x\r\n\r\n",
		"GET /\r\n\r\n",
		"POST / HTTP/1.1\r\nContent-Length: 99999999999999999999999\r\n\r\n",
	}

	run := func(raw string, oneByte bool) (string, string) {
		engine, _ := newEngine(t, smallBuffers(8, 128, 1024))
		var r io.Reader = strings.NewReader(raw)
		if oneByte {
			r = iotest.OneByteReader(r)
		}
		c := newConn(r)
		var seen string
		h := exchange.HandlerFunc(func(ex *exchange.Exchange) error {
			seen = snapshot(ex)
			ex.Respond(exchange.StatusOK, exchange.Text(ex.Path()))
			return nil
		})
		engine.Serve(context.Background(), c, h, nil)
		return seen, c.out.String()
	}

	for i, raw := range requests {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			bulkSeen, bulkOut := run(raw, false)
			slowSeen, slowOut := run(raw, true)
			assert.Equal(t, bulkSeen, slowSeen)
			assert.Equal(t, bulkOut, slowOut)
			assert.NotEmpty(t, bulkOut)
		})
	}
}
