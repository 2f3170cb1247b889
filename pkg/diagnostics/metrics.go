package diagnostics

import (
	"bytes"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/dmitrymomot/wirehttp/pkg/exchange"
)

// MetricsBody gathers g and renders it in the Prometheus text exposition
// format.
func MetricsBody(g prometheus.Gatherer) (exchange.FixedBody, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}
	var buf bytes.Buffer
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
			return nil, fmt.Errorf("encode metric family %s: %w", mf.GetName(), err)
		}
	}
	return exchange.Bytes(string(expfmt.NewFormat(expfmt.TypeTextPlain)), buf.Bytes()), nil
}

// MetricsHandler responds with MetricsBody(g). A gather failure becomes the
// engine's generic 500.
func MetricsHandler(g prometheus.Gatherer) exchange.HandlerFunc {
	return func(ex *exchange.Exchange) error {
		body, err := MetricsBody(g)
		if err != nil {
			return err
		}
		ex.ResponseHeaders().Set(exchange.HeaderCacheControl, "no-store")
		ex.Respond(exchange.StatusOK, body)
		return nil
	}
}
