package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dmitrymomot/wirehttp/pkg/exchange"
	"github.com/dmitrymomot/wirehttp/pkg/logger"
)

type config struct {
	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
	logger          *slog.Logger
	startHooks      []func(*slog.Logger)
	stopHooks       []func(*slog.Logger)
}

func defaultConfig() *config {
	return &config{
		addr:            ":8080",
		shutdownTimeout: 5 * time.Second,
	}
}

// Server accepts TCP connections and serves exchanges on them with an
// exchange.Engine, one goroutine per connection.
type Server struct {
	cfg    *config
	engine *exchange.Engine

	mu       sync.Mutex
	listener net.Listener
	cancel   context.CancelFunc
	conns    map[*conn]struct{}
	closing  atomic.Bool
	once     sync.Once
	wg       sync.WaitGroup
	stopErr  error
}

// New returns a server running engine. A nil engine gets exchange defaults.
func New(engine *exchange.Engine, opts ...Option) *Server {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logger.Discard()
	}
	if engine == nil {
		engine = exchange.NewEngine()
	}
	return &Server{cfg: cfg, engine: engine, conns: make(map[*conn]struct{})}
}

// Addr returns the listener address once serving, or nil.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Run listens on the configured address and serves h until ctx is done or
// the process receives SIGINT or SIGTERM, then shuts down gracefully.
// It returns ErrStart wrapped with the underlying error if the server fails to start.
func (s *Server) Run(ctx context.Context, h exchange.Handler) error {
	l, err := net.Listen("tcp", s.cfg.addr)
	if err != nil {
		return errors.Join(ErrStart, err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ctx, l, h) }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr, shutdownErr error
	select {
	case <-ctx.Done():
		shutdownErr = s.Shutdown(context.Background())
		runErr = <-errCh
	case <-stop:
		shutdownErr = s.Shutdown(context.Background())
		runErr = <-errCh
	case runErr = <-errCh:
	}

	if runErr != nil && !errors.Is(runErr, ErrServerClosed) {
		return errors.Join(ErrStart, runErr)
	}
	return shutdownErr
}

// Serve accepts connections on l until Shutdown, which it triggers itself
// when ctx is done. Exchanges run with a context derived from ctx that is
// cancelled when a shutdown times out. Serve returns ErrServerClosed after
// a shutdown.
func (s *Server) Serve(ctx context.Context, l net.Listener, h exchange.Handler) error {
	if h == nil {
		h = exchange.HandlerFunc(func(*exchange.Exchange) error { return nil })
	}

	s.mu.Lock()
	switch {
	case s.closing.Load():
		s.mu.Unlock()
		l.Close()
		return ErrServerClosed
	case s.listener != nil:
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.listener = l
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	for _, hook := range s.cfg.startHooks {
		hook(s.cfg.logger)
	}

	served := make(chan struct{})
	defer close(served)
	go func() {
		select {
		case <-ctx.Done():
			_ = s.Shutdown(context.Background())
		case <-served:
		}
	}()

	var backoff time.Duration
	for {
		nc, err := l.Accept()
		if err != nil {
			if s.closing.Load() {
				return ErrServerClosed
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				backoff = min(max(2*backoff, 5*time.Millisecond), time.Second)
				s.cfg.logger.WarnContext(ctx, "accept failed, retrying",
					logger.Component("server"),
					logger.Error(err),
					logger.Duration(backoff),
				)
				time.Sleep(backoff)
				continue
			}
			return err
		}
		backoff = 0

		c := &conn{nc: nc, srv: s, idle: true}
		if !s.track(c) {
			nc.Close()
			return ErrServerClosed
		}
		go c.serve(ctx, h)
	}
}

// Shutdown stops accepting, closes idle connections and waits for in-flight
// exchanges up to the shutdown timeout or ctx, whichever ends first. On
// timeout it cancels the exchange context, closes the remaining connections
// and returns ErrShutdown without waiting for handlers to return. Later
// calls wait for the first one and return its result.
func (s *Server) Shutdown(ctx context.Context) error {
	s.once.Do(func() {
		s.mu.Lock()
		s.closing.Store(true)
		if s.listener != nil {
			_ = s.listener.Close()
		}
		for c := range s.conns {
			c.closeIfIdle()
		}
		s.mu.Unlock()

		ctx, cancel := context.WithTimeout(ctx, s.cfg.shutdownTimeout)
		defer cancel()

		drained := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(drained)
		}()

		select {
		case <-drained:
			s.mu.Lock()
			if s.cancel != nil {
				s.cancel()
			}
			s.mu.Unlock()
		case <-ctx.Done():
			s.mu.Lock()
			if s.cancel != nil {
				s.cancel()
			}
			for c := range s.conns {
				_ = c.nc.Close()
			}
			s.mu.Unlock()
			s.stopErr = errors.Join(ErrShutdown, ctx.Err())
		}

		for _, hook := range s.cfg.stopHooks {
			hook(s.cfg.logger)
		}
	})
	return s.stopErr
}

func (s *Server) track(c *conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing.Load() {
		return false
	}
	s.conns[c] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *Server) untrack(c *conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
	s.wg.Done()
}
