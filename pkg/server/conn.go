package server

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/dmitrymomot/wirehttp/pkg/exchange"
)

// conn is one accepted connection and its keep-alive loop.
type conn struct {
	nc  net.Conn
	srv *Server

	mu   sync.Mutex
	idle bool
}

// setIdle marks the connection idle between exchanges. It reports false
// when the server is shutting down and the connection must stop.
func (c *conn) setIdle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.idle = true
	return !c.srv.closing.Load()
}

func (c *conn) setActive() {
	c.mu.Lock()
	c.idle = false
	c.mu.Unlock()
}

func (c *conn) closeIfIdle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.idle {
		_ = c.nc.Close()
	}
}

func (c *conn) serve(ctx context.Context, h exchange.Handler) {
	defer c.srv.untrack(c)
	defer c.nc.Close()

	cfg := c.srv.cfg
	var leftover []byte
	for {
		cio := &connIO{conn: c, readTimeout: cfg.readTimeout, writeTimeout: cfg.writeTimeout}
		if len(leftover) > 0 {
			if c.srv.closing.Load() {
				return
			}
			cio.begin()
		} else {
			if !c.setIdle() {
				return
			}
			var deadline time.Time
			if cfg.idleTimeout > 0 {
				deadline = time.Now().Add(cfg.idleTimeout)
			}
			_ = c.nc.SetReadDeadline(deadline)
			_ = c.nc.SetWriteDeadline(time.Time{})
		}

		res := c.srv.engine.Serve(ctx, cio, h, leftover)
		if !res.KeepAlive {
			return
		}
		leftover = res.Leftover
	}
}

// connIO is the engine's view of the connection for one exchange. The
// first byte read ends the idle wait and starts the read and write
// deadlines.
type connIO struct {
	*conn
	readTimeout  time.Duration
	writeTimeout time.Duration
	started      bool
}

func (c *connIO) begin() {
	c.started = true
	c.setActive()
	now := time.Now()
	var rd, wd time.Time
	if c.readTimeout > 0 {
		rd = now.Add(c.readTimeout)
	}
	if c.writeTimeout > 0 {
		wd = now.Add(c.readTimeout + c.writeTimeout)
	}
	_ = c.nc.SetReadDeadline(rd)
	_ = c.nc.SetWriteDeadline(wd)
}

func (c *connIO) Read(p []byte) (int, error) {
	n, err := c.nc.Read(p)
	if n > 0 && !c.started {
		c.begin()
	}
	return n, err
}

func (c *connIO) Write(p []byte) (int, error) {
	if !c.started {
		c.begin()
	}
	return c.nc.Write(p)
}

// RemoteAddr lets the engine label exchanges with the peer address.
func (c *connIO) RemoteAddr() net.Addr { return c.nc.RemoteAddr() }
