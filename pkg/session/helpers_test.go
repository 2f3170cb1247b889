package session_test

import (
	"bytes"
	"context"
	"io"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wirehttp/pkg/exchange"
	"github.com/dmitrymomot/wirehttp/pkg/session"
	"github.com/dmitrymomot/wirehttp/pkg/token"
)

type conn struct {
	r   io.Reader
	out bytes.Buffer
}

func (c *conn) Read(p []byte) (int, error)  { return c.r.Read(p) }
func (c *conn) Write(p []byte) (int, error) { return c.out.Write(p) }

var (
	testTime = time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)
	engine   = exchange.NewEngine(exchange.WithClock(func() time.Time { return testTime }))
)

func newStore(t *testing.T, opts ...session.Option) *session.Store {
	t.Helper()
	base := []session.Option{
		session.WithIDGenerator(token.NewGenerator(rand.NewPCG(1, 2))),
		session.WithCSRFGenerator(token.NewGenerator(rand.NewPCG(3, 4))),
		session.WithClock(func() time.Time { return testTime }),
	}
	s, err := session.New(append(base, opts...)...)
	require.NoError(t, err)
	return s
}

// request builds a parsed exchange. Each header is a "Name: value" line.
func request(t *testing.T, method, target string, headers ...string) *exchange.Exchange {
	t.Helper()
	var b strings.Builder
	b.WriteString(method + " " + target + " HTTP/1.1\r\n")
	for _, h := range headers {
		b.WriteString(h + "\r\n")
	}
	b.WriteString("\r\n")
	ex := engine.New(&conn{r: strings.NewReader(b.String())})
	require.Equal(t, exchange.StateReady, ex.ReadRequest())
	return ex
}

func serve(h exchange.Handler, raw string) string {
	c := &conn{r: strings.NewReader(raw)}
	engine.Serve(context.Background(), c, h, nil)
	return c.out.String()
}

func setCookies(ex *exchange.Exchange) []string {
	return ex.ResponseHeaders().Values(exchange.HeaderSetCookie)
}

func responseBody(t *testing.T, ex *exchange.Exchange) string {
	t.Helper()
	fb, ok := ex.ResponseBody().(exchange.FixedBody)
	require.True(t, ok)
	return string(fb.Bytes())
}
