package server

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/wirehttp/pkg/exchange"
	"github.com/dmitrymomot/wirehttp/pkg/logger"
)

// HealthCheckHandler returns a handler usable for both liveness and
// readiness probes.
//
//   - Liveness: with no dependency functions the handler answers 200 OK
//     with body "ALIVE".
//   - Readiness: every supplied function runs with the exchange context;
//     if all succeed the handler answers 200 OK with body "READY", otherwise
//     500 Internal Server Error with body "NOT_READY".
func HealthCheckHandler(log *slog.Logger, funcs ...func(context.Context) error) exchange.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}
	return func(ex *exchange.Exchange) error {
		ex.ResponseHeaders().Set(exchange.HeaderCacheControl, "no-store")
		if len(funcs) == 0 {
			ex.Respond(exchange.StatusOK, exchange.Text("ALIVE"))
			return nil
		}

		ctx := ex.Context()
		for _, f := range funcs {
			if err := f(ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed", logger.Component("server"), logger.Error(err))
				ex.Respond(exchange.StatusInternalServerError, exchange.Text("NOT_READY"))
				return nil
			}
		}

		ex.Respond(exchange.StatusOK, exchange.Text("READY"))
		return nil
	}
}
