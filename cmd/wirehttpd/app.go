package main

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/wirehttp/pkg/attr"
	"github.com/dmitrymomot/wirehttp/pkg/clientip"
	"github.com/dmitrymomot/wirehttp/pkg/diagnostics"
	"github.com/dmitrymomot/wirehttp/pkg/exchange"
	"github.com/dmitrymomot/wirehttp/pkg/ratelimiter"
	"github.com/dmitrymomot/wirehttp/pkg/requestid"
	"github.com/dmitrymomot/wirehttp/pkg/router"
	"github.com/dmitrymomot/wirehttp/pkg/server"
	"github.com/dmitrymomot/wirehttp/pkg/session"
)

var visitsKey = attr.NewKey[*atomic.Int64]("demo.visits")

type app struct {
	store   *session.Store
	limiter ratelimiter.RateLimiter
	metrics prometheus.Gatherer
	log     *slog.Logger
}

func newApp(store *session.Store, limiter ratelimiter.RateLimiter, metrics prometheus.Gatherer, log *slog.Logger) *app {
	return &app{store: store, limiter: limiter, metrics: metrics, log: log}
}

func (a *app) routes() *router.Router {
	return router.New(
		router.Filter(router.Chain(requestid.Filter(), clientip.Filter(), router.NotFound()),
			router.Path("/", router.Get(a.index)),
			router.Path("/form",
				router.Get(a.formToken),
				router.Allow(exchange.MethodPost,
					router.Filter(ratelimiter.Filter(a.limiter, ratelimiter.ByIP()),
						router.Handle(a.store.CSRFGuard()),
						router.HandleFunc(a.submit),
					),
				),
			),
			router.Path("/users/{id:digits}", router.Get(a.user)),
			router.Path("/static/*", router.Get(a.static)),
			router.Path("/metrics", router.Get(diagnostics.MetricsHandler(a.metrics))),
			router.Path("/healthz", router.Get(server.HealthCheckHandler(a.log))),
		),
	)
}

// index counts visits per session.
func (a *app) index(ex *exchange.Exchange) error {
	sess := a.store.Ensure(ex)
	n := session.Value(sess, visitsKey, func() *atomic.Int64 { return new(atomic.Int64) }).Add(1)
	ex.Respond(exchange.StatusOK, exchange.Text(fmt.Sprintf("visits: %d", n)))
	return nil
}

type csrfResponse struct {
	Header string `json:"header"`
	Token  string `json:"token"`
}

// formToken hands out the CSRF token the client must echo on POST /form.
func (a *app) formToken(ex *exchange.Exchange) error {
	sess := a.store.Ensure(ex)
	ex.ResponseHeaders().Set(exchange.HeaderCacheControl, "no-store")
	ex.Respond(exchange.StatusOK, exchange.JSON(csrfResponse{
		Header: string(a.store.CSRFHeader()),
		Token:  sess.CSRFToken().String(),
	}))
	return nil
}

func (a *app) submit(ex *exchange.Exchange) error {
	form, err := ex.Form()
	if errors.Is(err, exchange.ErrNotForm) {
		return exchange.NewHTTPError(exchange.StatusUnsupportedMediaType, "")
	}
	if err != nil {
		return err
	}
	ex.Respond(exchange.StatusOK, exchange.Text("message: "+form.Get("message")))
	return nil
}

func (a *app) user(ex *exchange.Exchange) error {
	ex.Respond(exchange.StatusOK, exchange.Text("user "+router.PathParam(ex, "id")))
	return nil
}

func (a *app) static(ex *exchange.Exchange) error {
	ex.Respond(exchange.StatusOK, exchange.Text("static "+router.PathParam(ex, "*")))
	return nil
}
