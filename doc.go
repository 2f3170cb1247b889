// Package wirehttp is a small HTTP/1.1 server stack built around a
// hand-rolled exchange engine.
//
// The module is organised as independent packages under pkg/:
//
//   - exchange parses one request from a connection, runs a handler and
//     writes the response, reporting abnormal terminations to a diagnostics
//     sink.
//   - router dispatches exchanges through an immutable tree of matchers,
//     filters and per-method allow-maps.
//   - session keeps server-side sessions behind a cookie and checks CSRF
//     tokens on unsafe methods.
//   - server runs the engine over TCP with keep-alive and graceful shutdown.
//   - diagnostics, requestid, clientip, ratelimiter, spool, logger and config
//     supply the pieces around them.
//
// Basic Usage:
//
//	engine := exchange.NewEngine()
//	store := session.MustNew()
//
//	r := router.New(
//		router.Filter(router.NotFound(),
//			router.Path("/", router.Get(func(ex *exchange.Exchange) error {
//				sess := store.Ensure(ex)
//				ex.Respond(exchange.StatusOK, exchange.Text("hello "+sess.ID().String()))
//				return nil
//			})),
//		),
//	)
//
//	srv := server.New(engine, server.WithAddr(":8080"))
//	if err := srv.Run(context.Background(), r); err != nil {
//		log.Fatal(err)
//	}
//
// The cmd/wirehttpd binary wires every package into a demo application.
package wirehttp
