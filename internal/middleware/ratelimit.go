package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/limiter"
)

// NewRateLimiter returns a fixed-window limiter allowing max requests per
// window for each RateLimitKey. The limiter sets the X-RateLimit-* and
// Retry-After headers itself.
func NewRateLimiter(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:          max,
		Expiration:   window,
		KeyGenerator: RateLimitKey,
		LimitReached: func(c fiber.Ctx) error {
			msg := "Too many requests. Try again later."
			if retry := c.GetRespHeader(fiber.HeaderRetryAfter); retry != "" {
				msg = "Too many requests. Try again in " + retry + " seconds."
			}
			return ErrorResponse(c, fiber.StatusTooManyRequests, "RATE_LIMITED", msg)
		},
	})
}

// RateLimitKey is the address limits are counted against. Behind a trusted
// proxy it is the last X-Forwarded-For entry, the one the proxy appended;
// otherwise the connection address. Unlike ClientIP, a client cannot change
// it by sending its own X-Forwarded-For.
func RateLimitKey(c fiber.Ctx) string {
	if c.App().Config().TrustProxy && c.IsProxyTrusted() {
		if ip := lastForwarded(c.Get(HeaderForwardedFor)); ip != "" {
			return "ip:" + ip
		}
	}
	return "ip:" + c.IP()
}

// NewReadRateLimiter: 120 req/min per address
func NewReadRateLimiter() fiber.Handler {
	return NewRateLimiter(120, time.Minute)
}

// NewReviewRateLimiter: 5 req/min per address
func NewReviewRateLimiter() fiber.Handler {
	return NewRateLimiter(5, time.Minute)
}

// NewRatingRateLimiter: 20 req/min per address
func NewRatingRateLimiter() fiber.Handler {
	return NewRateLimiter(20, time.Minute)
}
