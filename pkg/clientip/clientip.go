package clientip

import (
	"net"
	"strings"

	"github.com/dmitrymomot/wirehttp/pkg/exchange"
)

// Proxy headers consulted by GetIP, highest priority first.
const (
	HeaderCFConnectingIP exchange.HeaderName = "CF-Connecting-IP"
	HeaderDOConnectingIP exchange.HeaderName = "DO-Connecting-IP"
	HeaderForwardedFor   exchange.HeaderName = "X-Forwarded-For"
	HeaderRealIP         exchange.HeaderName = "X-Real-IP"
)

// GetIP returns the client's IP address for the exchange.
// Priority order:
// 1. CF-Connecting-IP (Cloudflare)
// 2. DO-Connecting-IP (DigitalOcean App Platform)
// 3. X-Forwarded-For (first valid address in the list)
// 4. X-Real-IP (Nginx reverse proxy)
// 5. the transport peer address
func GetIP(ex *exchange.Exchange) string {
	h := ex.Headers()
	for _, name := range []exchange.HeaderName{HeaderCFConnectingIP, HeaderDOConnectingIP} {
		if parsed := parseIP(h.Get(name)); parsed != "" {
			return parsed
		}
	}

	if forwarded := h.Get(HeaderForwardedFor); forwarded != "" {
		for ip := range strings.SplitSeq(forwarded, ",") {
			if parsed := parseIP(ip); parsed != "" {
				return parsed
			}
		}
	}

	if parsed := parseIP(h.Get(HeaderRealIP)); parsed != "" {
		return parsed
	}

	remote := ex.RemoteAddr()
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		// No port: assume it is already just an IP.
		return parseIP(remote)
	}
	return parseIP(host)
}

// parseIP validates and normalizes an IP address string.
// Returns empty string if the IP is invalid.
func parseIP(ipStr string) string {
	ipStr = strings.TrimSpace(ipStr)
	if ipStr == "" {
		return ""
	}
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return ""
	}
	return ip.String()
}
