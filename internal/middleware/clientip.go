package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
)

// HeaderForwardedFor is the proxy header consulted before the socket address.
const HeaderForwardedFor = "X-Forwarded-For"

// ClientIP resolves the visitor's address: the first non-empty entry of
// X-Forwarded-For when a proxy set one, else the direct connection address.
func ClientIP(c fiber.Ctx) string {
	if ip := firstForwarded(c.Get(HeaderForwardedFor)); ip != "" {
		return ip
	}
	return c.IP()
}

func firstForwarded(header string) string {
	for _, part := range strings.Split(header, ",") {
		if ip := strings.TrimSpace(part); ip != "" {
			return truncate(ip, MaxIPLen)
		}
	}
	return ""
}

func lastForwarded(header string) string {
	parts := strings.Split(header, ",")
	for i := len(parts) - 1; i >= 0; i-- {
		if ip := strings.TrimSpace(parts[i]); ip != "" {
			return truncate(ip, MaxIPLen)
		}
	}
	return ""
}
