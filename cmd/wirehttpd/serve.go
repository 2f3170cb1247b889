package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/wirehttp/pkg/config"
	"github.com/dmitrymomot/wirehttp/pkg/diagnostics"
	"github.com/dmitrymomot/wirehttp/pkg/exchange"
	"github.com/dmitrymomot/wirehttp/pkg/logger"
	"github.com/dmitrymomot/wirehttp/pkg/ratelimiter"
	"github.com/dmitrymomot/wirehttp/pkg/requestid"
	"github.com/dmitrymomot/wirehttp/pkg/server"
	"github.com/dmitrymomot/wirehttp/pkg/session"
	"github.com/dmitrymomot/wirehttp/pkg/spool"
)

func serveCmd() *cobra.Command {
	var (
		addr     string
		envFiles []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the server",
		Long: `Start the demo server.

Settings come from environment variables, optionally read from
.env files first. Flags override the environment.

Examples:
  wirehttpd serve
  wirehttpd serve --addr=:9000
  wirehttpd serve --env-file=.env.local`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadEnv(envFiles...); err != nil {
				return err
			}
			return runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from HTTP_ADDR)")
	cmd.Flags().StringSliceVar(&envFiles, "env-file", nil, "Env files to load before reading configuration")

	return cmd
}

// settings groups every component configuration read from the environment.
type settings struct {
	Log     logger.Config
	Engine  exchange.Config
	Spool   spool.Config
	Session session.Config
	Limit   ratelimiter.Config
	Server  server.Config
}

func loadSettings() (settings, error) {
	var s settings
	for _, load := range []func() error{
		func() error { return config.Load(&s.Log) },
		func() error { return config.Load(&s.Engine) },
		func() error { return config.Load(&s.Spool) },
		func() error { return config.Load(&s.Session) },
		func() error { return config.Load(&s.Limit) },
		func() error { return config.Load(&s.Server) },
	} {
		if err := load(); err != nil {
			return settings{}, err
		}
	}
	return s, nil
}

func runServe(ctx context.Context, addr string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	log, err := logger.NewFromConfig(cfg.Log,
		logger.WithOutput(os.Stderr),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	if err != nil {
		return err
	}

	files, err := spool.NewFromConfig(cfg.Spool)
	if err != nil {
		return fmt.Errorf("spool: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := diagnostics.NewPrometheus(diagnostics.WithRegisterer(registry))

	if err := cfg.Engine.Validate(); err != nil {
		return err
	}
	engine := exchange.NewEngineFromConfig(cfg.Engine,
		exchange.WithBodyFiles(files),
		exchange.WithDiagnostics(diagnostics.Multi(diagnostics.Logger(log), metrics)),
	)

	store, err := session.NewFromConfig(cfg.Session, session.WithLogger(log))
	if err != nil {
		return err
	}

	limitStore := ratelimiter.NewMemoryStore()
	defer limitStore.Close()
	limiter, err := ratelimiter.NewBucket(limitStore, cfg.Limit)
	if err != nil {
		return err
	}

	srv := server.NewFromConfig(cfg.Server, engine,
		server.WithLogger(log),
		server.WithStartHook(func(l *slog.Logger) {
			l.Info("server started",
				slog.String("addr", cfg.Server.Addr),
				slog.String("version", version),
			)
		}),
		server.WithStopHook(func(l *slog.Logger) { l.Info("server stopped") }),
	)

	return srv.Run(ctx, newApp(store, limiter, registry, log).routes())
}
