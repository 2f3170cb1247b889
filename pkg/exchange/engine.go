package exchange

import (
	"context"
	"io"
	"net"
	"time"
)

// Engine holds the immutable settings shared by every exchange it creates.
// It is safe for concurrent use.
type Engine struct {
	cfg   Config
	clock func() time.Time
	diag  Diagnostics
	files BodyFiles
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig sets the buffer and body limits.
func WithConfig(cfg Config) Option {
	if err := cfg.Validate(); err != nil {
		panic("WithConfig: " + err.Error())
	}
	return func(e *Engine) { e.cfg = cfg }
}

// WithClock sets the clock used for the Date header.
func WithClock(clock func() time.Time) Option {
	if clock == nil {
		panic("WithClock: nil clock")
	}
	return func(e *Engine) { e.clock = clock }
}

// WithDiagnostics sets the sink receiving abnormal-termination events.
func WithDiagnostics(d Diagnostics) Option {
	if d == nil {
		panic("WithDiagnostics: nil sink")
	}
	return func(e *Engine) { e.diag = d }
}

// WithBodyFiles enables spooling of bodies larger than the read buffer.
// Without it such bodies are rejected with 413.
func WithBodyFiles(files BodyFiles) Option {
	return func(e *Engine) { e.files = files }
}

// NewEngine creates an engine with DefaultConfig limits, the system clock and
// a discarding diagnostics sink unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		cfg:   DefaultConfig(),
		clock: time.Now,
		diag:  discardDiagnostics{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewEngineFromConfig creates an engine from cfg, typically loaded from the
// environment.
func NewEngineFromConfig(cfg Config, opts ...Option) *Engine {
	return NewEngine(append([]Option{WithConfig(cfg)}, opts...)...)
}

// Config returns the engine limits.
func (e *Engine) Config() Config { return e.cfg }

// New creates an exchange reading from and writing to rw. Peer addresses
// are taken from rw when it exposes RemoteAddr.
func (e *Engine) New(rw io.ReadWriter) *Exchange {
	ex := &Exchange{
		engine:  e,
		conn:    rw,
		ctx:     context.Background(),
		buf:     newBuffer(e.cfg.InitialBufferSize, e.cfg.MaxBufferSize),
		query:   NewQuery(),
		header:  NewHeader(),
		respHdr: NewHeader(),
	}
	if ra, ok := rw.(interface{ RemoteAddr() net.Addr }); ok {
		if addr := ra.RemoteAddr(); addr != nil {
			ex.remote = addr.String()
		}
	}
	return ex
}

// Result is the outcome of Serve for the connection loop.
type Result struct {
	// KeepAlive reports whether another exchange may follow.
	KeepAlive bool
	// Leftover holds pipelined bytes read past this request.
	Leftover []byte
}

// Serve runs one full exchange on rw: parse, handle, write and cleanup.
// Leftover input from a previous exchange on the same connection is
// consumed first.
func (e *Engine) Serve(ctx context.Context, rw io.ReadWriter, h Handler, leftover []byte) Result {
	ex := e.New(rw)
	defer ex.Close()
	if ctx != nil {
		ex.ctx = ctx
	}
	if len(leftover) > 0 {
		if err := ex.buf.preload(leftover); err != nil {
			return Result{}
		}
	}

	switch ex.ReadRequest() {
	case StateAborted:
		return Result{}
	case StateReady:
		_ = ex.Run(h)
	}
	if err := ex.WriteResponse(); err != nil {
		return Result{}
	}
	res := Result{KeepAlive: ex.KeepAlive()}
	if res.KeepAlive {
		res.Leftover = append([]byte(nil), ex.Leftover()...)
	}
	return res
}
