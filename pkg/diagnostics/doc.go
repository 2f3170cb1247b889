// Package diagnostics provides sinks for the exchange engine's diagnostics
// events: a structured logger, Prometheus counters, a fan-out and an
// in-memory recorder for tests.
//
// The engine reports exactly one exchange.Event per abnormal termination
// (malformed request, size limit, transport failure, handler failure,
// body spool failure or response write failure) and stays silent otherwise.
//
// # Usage
//
//	reg := prometheus.NewRegistry()
//	metrics := diagnostics.NewPrometheus(diagnostics.WithRegisterer(reg))
//
//	engine := exchange.NewEngine(
//	    exchange.WithDiagnostics(diagnostics.Multi(
//	        diagnostics.Logger(log),
//	        metrics,
//	    )),
//	)
//
//	r := router.New(
//	    router.Path("/metrics", router.Get(diagnostics.MetricsHandler(reg))),
//	)
//
// # Metrics
//
// Prometheus exposes one counter vector,
// <namespace>_exchange_failures_total{kind,status}. The namespace defaults
// to "wirehttp". Status is "0" for terminations that produced no response.
package diagnostics
