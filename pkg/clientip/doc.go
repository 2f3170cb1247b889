// Package clientip resolves the originating client's IP address for an
// exchange when the server runs behind one or more reverse proxies.
//
// The resolution examines several headers in descending priority until the
// first valid IP address is found:
//
//  1. CF-Connecting-IP, set by Cloudflare
//  2. DO-Connecting-IP, set by DigitalOcean App Platform
//  3. X-Forwarded-For, a comma-separated list (the first valid IP is used)
//  4. X-Real-IP, set by reverse proxies such as Nginx
//  5. the TCP peer address as a fallback
//
// # Usage
//
//	r := router.New(
//		router.Filter(clientip.Filter(),
//			router.Path("/", router.Get(func(ex *exchange.Exchange) error {
//				ip := clientip.FromExchange(ex)
//				ex.Respond(exchange.StatusOK, exchange.Text(ip))
//				return nil
//			})),
//		),
//	)
//
// GetIP never returns an error. If no valid address is found an empty
// string is returned so callers can decide how to proceed.
package clientip
