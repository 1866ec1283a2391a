package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"

	"github.com/KeplerDE/kinos-go/internal/logger"
	"github.com/KeplerDE/kinos-go/pkg/hash"
)

// ipHashLen is how much of the SHA-256 of the client IP goes into logs.
const ipHashLen = 12

// NewRequestLogger returns a Fiber middleware that logs each request as
// structured JSON via zerolog. Client IPs are logged as a short hash only.
func NewRequestLogger() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			// Render the error now so the logged status is the one sent.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		duration := time.Since(start)
		status := c.Response().StatusCode()

		evt := logger.Log.Info()
		if status >= 500 {
			evt = logger.Log.Error()
		} else if status >= 400 {
			evt = logger.Log.Warn()
		}

		route := ""
		if r := c.Route(); r != nil {
			route = r.Path
		}

		evt.
			Str("request_id", requestid.FromContext(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("route", route).
			Int("status", status).
			Dur("duration_ms", duration).
			Str("ip_hash", hash.Prefix(ClientIP(c), ipHashLen)).
			Int("bytes_sent", len(c.Response().Body())).
			Msg("request")
		return nil
	}
}
