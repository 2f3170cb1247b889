package diagnostics

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/wirehttp/pkg/exchange"
	"github.com/dmitrymomot/wirehttp/pkg/logger"
)

// Logger returns a sink writing one record per event. Protocol and limit
// violations are client faults and log at warn; everything else logs at
// error.
func Logger(l *slog.Logger) exchange.Diagnostics {
	if l == nil {
		l = logger.Discard()
	}
	return exchange.DiagnosticsFunc(func(e exchange.Event) {
		level := slog.LevelError
		if e.Kind == exchange.KindProtocol || e.Kind == exchange.KindLimit {
			level = slog.LevelWarn
		}
		l.LogAttrs(context.Background(), level, "exchange failed",
			logger.Kind(e.Kind),
			logger.Status(e.Status),
			logger.Method(string(e.Method)),
			logger.Target(e.Target),
			logger.Remote(e.Remote),
			logger.Error(e.Err),
		)
	})
}
