package diagnostics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dmitrymomot/wirehttp/pkg/exchange"
)

// PrometheusConfig configures the Prometheus sink.
type PrometheusConfig struct {
	// Namespace is the metrics namespace (default: "wirehttp").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registerer is where the metrics are registered.
	// Default: prometheus.DefaultRegisterer
	Registerer prometheus.Registerer
}

// PrometheusOption configures the Prometheus sink.
type PrometheusOption func(*PrometheusConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) PrometheusOption {
	return func(c *PrometheusConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) PrometheusOption {
	return func(c *PrometheusConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) PrometheusOption {
	return func(c *PrometheusConfig) {
		c.ConstLabels = labels
	}
}

// WithRegisterer sets the registerer the metrics are added to.
func WithRegisterer(r prometheus.Registerer) PrometheusOption {
	return func(c *PrometheusConfig) {
		if r != nil {
			c.Registerer = r
		}
	}
}

func defaultPrometheusConfig() PrometheusConfig {
	return PrometheusConfig{
		Namespace:  "wirehttp",
		Registerer: prometheus.DefaultRegisterer,
	}
}

// Prometheus counts diagnostics events by kind and status.
type Prometheus struct {
	failures *prometheus.CounterVec
}

// NewPrometheus creates and registers the counters. It panics if they are
// already registered on the chosen registerer.
func NewPrometheus(opts ...PrometheusOption) *Prometheus {
	cfg := defaultPrometheusConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	factory := promauto.With(cfg.Registerer)
	return &Prometheus{
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "exchange_failures_total",
			Help:        "Exchanges that terminated abnormally, by failure kind and response status.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"kind", "status"}),
	}
}

// Record implements exchange.Diagnostics.
func (p *Prometheus) Record(e exchange.Event) {
	p.failures.WithLabelValues(string(e.Kind), strconv.Itoa(e.Status)).Inc()
}

// Failures returns the underlying counter vector.
func (p *Prometheus) Failures() *prometheus.CounterVec {
	return p.failures
}
