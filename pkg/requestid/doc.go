// Package requestid tags exchanges with request correlation identifiers.
//
// Filter is a router filter. If the client supplies an X-Request-ID header
// of 1 to 128 characters from [A-Za-z0-9_-] it is reused; otherwise a new
// UUIDv4 string is generated. The ID is stored in the exchange context and
// echoed back in the X-Request-ID response header.
//
// WithContext and FromContext store and read the ID on a context.Context,
// and LoggerExtractor plugs into the logger package so every record logged
// with the exchange context carries request_id.
//
// # Usage
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//
//	r := router.New(
//	    router.Filter(requestid.Filter(),
//	        router.Path("/", router.Get(func(ex *exchange.Exchange) error {
//	            log.InfoContext(ex.Context(), "home")
//	            ex.Respond(exchange.StatusOK, exchange.Text(requestid.FromExchange(ex)))
//	            return nil
//	        })),
//	    ),
//	)
package requestid
