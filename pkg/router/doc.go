// Package router composes matchers, filters and handlers into an immutable
// dispatch tree over exchanges.
//
// The tree is evaluated depth-first. Siblings are tried in order and the
// first node to mark the exchange processed wins; a matcher whose subtree
// declines has its captures rolled back before the next sibling runs.
//
//	r := router.New(
//		router.Filter(router.NotFound(),
//			router.Path("/", router.Get(home)),
//			router.Path("/users/{id:digits}",
//				router.Allow(exchange.MethodGet, router.HandleFunc(showUser)),
//				router.Allow(exchange.MethodDelete, router.HandleFunc(deleteUser)),
//			),
//			router.PathPrefix("/static",
//				router.HandleFunc(serveStatic), // router.Subpath(ex) is the file path
//			),
//		),
//	)
//
// # Allow-maps
//
// Allow nodes are merged into one method table at the position of the first
// of them. A method without a declared chain answers 405 with an Allow
// header listing the declared methods in canonical order; GET implies HEAD
// and HEAD requests reuse the GET chain.
//
// # Matchers
//
// Exact, Prefix and Pattern match the request path; SubExact, SubPrefix and
// SubPattern match the subpath captured by an enclosing Prefix or wildcard.
// Parse accepts the string form "/users/{id:digits}/*".
package router
