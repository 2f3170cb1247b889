// Package server runs an exchange.Engine over TCP with keep-alive
// connections, per-exchange timeouts and graceful shutdown.
//
// Each accepted connection gets its own goroutine that serves exchanges in
// a loop, carrying pipelined bytes from one exchange into the next, until
// the engine reports the connection must close.
//
// Timeouts are measured per exchange. The idle timeout covers the wait for
// the first byte of the next request. Once it arrives the read timeout
// starts, and the write timeout extends the window for handling and
// writing the response.
//
// # Usage
//
//	engine := exchange.NewEngine()
//	srv := server.New(engine,
//		server.WithAddr(":8080"),
//		server.WithIdleTimeout(2*time.Minute),
//		server.WithLogger(log),
//	)
//
//	r := router.New(
//		router.Path("/healthz", router.Get(server.HealthCheckHandler(log))),
//	)
//
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Run blocks until ctx is cancelled or the process receives SIGINT or
// SIGTERM. Serve accepts on a caller-supplied listener instead, which is
// handy in tests. Shutdown stops accepting, closes idle connections and
// waits for in-flight exchanges up to the shutdown timeout.
//
// # Configuration
//
// NewFromConfig builds a server from Config, which is loadable from
// environment variables with the config package:
//
//	cfg := config.MustLoad[server.Config]()
//	srv := server.NewFromConfig(cfg, engine, server.WithLogger(log))
package server
