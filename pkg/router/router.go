package router

import (
	"github.com/dmitrymomot/wirehttp/pkg/exchange"
)

// Router is the dispatch entry point over an immutable tree.
type Router struct {
	root chain
}

// New builds a router from top-level nodes.
func New(children ...Node) *Router {
	return &Router{root: compile(children)}
}

// Handle walks the tree depth-first. It satisfies exchange.Handler; an
// exchange no node processed is left for the engine's 204 default.
func (r *Router) Handle(ex *exchange.Exchange) error {
	return r.root.serve(ex)
}

// Dispatch walks the tree and reports whether a node processed the exchange.
func (r *Router) Dispatch(ex *exchange.Exchange) (bool, error) {
	err := r.root.serve(ex)
	return ex.Processed(), err
}

// Fallback returns a filter that responds with status and body when the
// wrapped chain leaves the exchange unprocessed.
func Fallback(status int, body exchange.ResponseBody) FilterFunc {
	return func(ex *exchange.Exchange, next func() error) error {
		if err := next(); err != nil {
			return err
		}
		if !ex.Processed() {
			ex.Respond(status, body)
		}
		return nil
	}
}

// NotFound is Fallback with 404 "Not Found.".
func NotFound() FilterFunc {
	return Fallback(exchange.StatusNotFound, exchange.Text("Not Found."))
}

// Chain composes filters into one; the first runs outermost.
func Chain(filters ...FilterFunc) FilterFunc {
	return func(ex *exchange.Exchange, next func() error) error {
		run := next
		for i := len(filters) - 1; i >= 0; i-- {
			f, inner := filters[i], run
			run = func() error { return f(ex, inner) }
		}
		return run()
	}
}
