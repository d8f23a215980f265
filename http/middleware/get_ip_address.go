package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/xy-planning-network/portal"
)

const unknownIP = "0.0.0.0"

// InjectIPAddress grabs the IP address in the *http.Request.Header
// and promotes it to *http.Request.Context under portal.IpAddrKey.
func InjectIPAddress() Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := GetIPAddress(r.Header)
			r = r.Clone(context.WithValue(r.Context(), portal.IpAddrKey, ip))
			h.ServeHTTP(w, r)
		})
	}
}

// IPAddressFromContext retrieves the address InjectIPAddress stashed.
func IPAddressFromContext(ctx context.Context) string {
	ip, ok := ctx.Value(portal.IpAddrKey).(string)
	if !ok {
		return ""
	}

	return ip
}

// GetIPAddress parses "X-Forwarded-For" and "X-Real-Ip" headers for the IP address
// from the request.
//
// GetIPAddress skips addresses from non-public ranges.
func GetIPAddress(hm http.Header) string {
	for _, h := range []string{"X-Forwarded-For", "X-Real-Ip"} {
		addresses := strings.Split(hm.Get(h), ",")
		// march from right to left until we get a public address
		// that will be the address right before our proxy.
		for i := len(addresses) - 1; i >= 0; i-- {
			ip := strings.TrimSpace(addresses[i])
			realIP := net.ParseIP(ip)
			if realIP == nil || !realIP.IsGlobalUnicast() || realIP.IsPrivate() {
				continue
			}

			return ip
		}
	}

	return unknownIP
}
