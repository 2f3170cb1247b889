package exchange_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrymomot/wirehttp/pkg/exchange"
)

var testTime = time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)

const testDate = "Tue, 02 Jan 2024 03:04:05 GMT"

// conn is an in-memory connection: reads come from r, writes collect in out.
type conn struct {
	r   io.Reader
	out bytes.Buffer
}

func newConn(r io.Reader) *conn { return &conn{r: r} }

func (c *conn) Read(p []byte) (int, error)  { return c.r.Read(p) }
func (c *conn) Write(p []byte) (int, error) { return c.out.Write(p) }

type recorder struct {
	mu     sync.Mutex
	events []exchange.Event
}

func (r *recorder) Record(e exchange.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) Events() []exchange.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]exchange.Event(nil), r.events...)
}

func newEngine(t *testing.T, opts ...exchange.Option) (*exchange.Engine, *recorder) {
	t.Helper()
	rec := &recorder{}
	base := []exchange.Option{
		exchange.WithClock(func() time.Time { return testTime }),
		exchange.WithDiagnostics(rec),
	}
	return exchange.NewEngine(append(base, opts...)...), rec
}

func smallBuffers(initial, limit int, body int64) exchange.Option {
	return exchange.WithConfig(exchange.Config{
		InitialBufferSize: initial,
		MaxBufferSize:     limit,
		MaxBodySize:       body,
	})
}

// roundTrip serves raw as a single exchange and returns the bytes written.
func roundTrip(engine *exchange.Engine, raw string, h exchange.Handler) (string, exchange.Result) {
	c := newConn(strings.NewReader(raw))
	res := engine.Serve(context.Background(), c, h, nil)
	return c.out.String(), res
}

// parse runs only the parse phase over raw.
func parse(engine *exchange.Engine, raw string) (*exchange.Exchange, *conn) {
	c := newConn(strings.NewReader(raw))
	ex := engine.New(c)
	ex.ReadRequest()
	return ex, c
}

var echoPath = exchange.HandlerFunc(func(ex *exchange.Exchange) error {
	ex.Respond(exchange.StatusOK, exchange.Text(ex.Path()))
	return nil
})

var noop = exchange.HandlerFunc(func(*exchange.Exchange) error { return nil })

// response builds the expected serialization of a response without
// handler headers.
func response(status string, fields []string, body string) string {
	var b strings.Builder
	b.WriteString("HTTP/1.1 " + status + "\r\n")
	b.WriteString("Date: " + testDate + "\r\n")
	for _, f := range fields {
		b.WriteString(f + "\r\n")
	}
	b.WriteString("\r\n")
	b.WriteString(body)
	return b.String()
}

func badRequestLine() string {
	return response("400 Bad Request", []string{
		"Content-Type: text/plain; charset=utf-8",
		"Content-Length: 21",
		"Connection: close",
	}, "Invalid request line.")
}

func badRequestHeaders() string {
	return response("400 Bad Request", []string{
		"Content-Type: text/plain; charset=utf-8",
		"Content-Length: 24",
		"Connection: close",
	}, "Invalid request headers.")
}

func emptyClose(status string) string {
	return response(status, []string{"Content-Length: 0", "Connection: close"}, "")
}
