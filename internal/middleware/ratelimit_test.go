package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
)

func newLimitedApp(t *testing.T, cfg fiber.Config, limit fiber.Handler) func(forwarded string) int {
	t.Helper()
	app := fiber.New(cfg)
	app.Get("/", limit, func(c fiber.Ctx) error {
		return c.SendString("ok")
	})

	return func(forwarded string) int {
		req := httptest.NewRequest(fiber.MethodGet, "/", nil)
		if forwarded != "" {
			req.Header.Set(HeaderForwardedFor, forwarded)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		return resp.StatusCode
	}
}

func TestRateLimiter_BlocksAfterMax(t *testing.T) {
	app := fiber.New()
	app.Get("/", NewRateLimiter(2, time.Minute), func(c fiber.Ctx) error {
		return c.SendString("ok")
	})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, resp.StatusCode)
		}
		if resp.Header.Get("X-RateLimit-Limit") != "2" {
			t.Fatalf("X-RateLimit-Limit = %q, want 2", resp.Header.Get("X-RateLimit-Limit"))
		}
	}

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Fatalf("3rd request status = %d, want 429", resp.StatusCode)
	}
	if resp.Header.Get(fiber.HeaderRetryAfter) == "" {
		t.Fatal("429 response has no Retry-After header")
	}

	raw, _ := io.ReadAll(resp.Body)
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode 429 body %q: %v", raw, err)
	}
	if body.Error.Code != "RATE_LIMITED" {
		t.Fatalf("error code = %q, want RATE_LIMITED", body.Error.Code)
	}
}

func TestRateLimiter_ForwardedForCannotBeRotated(t *testing.T) {
	do := newLimitedApp(t, fiber.Config{}, NewRateLimiter(1, time.Minute))

	if got := do("198.51.100.1"); got != fiber.StatusOK {
		t.Fatalf("first request status = %d, want 200", got)
	}
	if got := do("198.51.100.2"); got != fiber.StatusTooManyRequests {
		t.Fatalf("rotated X-Forwarded-For status = %d, want 429", got)
	}
}

func TestRateLimiter_TrustedProxyKeysOnAppendedAddress(t *testing.T) {
	do := newLimitedApp(t, fiber.Config{
		TrustProxy:       true,
		TrustProxyConfig: fiber.TrustProxyConfig{Proxies: []string{"0.0.0.0/0"}},
	}, NewRateLimiter(1, time.Minute))

	if got := do("1.1.1.1, 203.0.113.7"); got != fiber.StatusOK {
		t.Fatalf("first request status = %d, want 200", got)
	}
	if got := do("2.2.2.2, 203.0.113.7"); got != fiber.StatusTooManyRequests {
		t.Fatalf("forged first entry status = %d, want 429", got)
	}
	if got := do("203.0.113.8"); got != fiber.StatusOK {
		t.Fatalf("other client status = %d, want 200", got)
	}
}

func TestRateLimiter_UntrustedProxyFallsBackToConnection(t *testing.T) {
	do := newLimitedApp(t, fiber.Config{
		TrustProxy:       true,
		TrustProxyConfig: fiber.TrustProxyConfig{Proxies: []string{"192.0.2.1"}},
	}, NewRateLimiter(1, time.Minute))

	do("203.0.113.7")
	if got := do("203.0.113.8"); got != fiber.StatusTooManyRequests {
		t.Fatalf("untrusted proxy header status = %d, want 429", got)
	}
}

func TestRateLimiter_Presets(t *testing.T) {
	tests := []struct {
		name  string
		limit fiber.Handler
		max   int
	}{
		{"review", NewReviewRateLimiter(), 5},
		{"rating", NewRatingRateLimiter(), 20},
		{"read", NewReadRateLimiter(), 120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			do := newLimitedApp(t, fiber.Config{}, tt.limit)
			for i := 0; i < tt.max; i++ {
				if got := do(""); got != fiber.StatusOK {
					t.Fatalf("request %d status = %d, want 200", i+1, got)
				}
			}
			if got := do(""); got != fiber.StatusTooManyRequests {
				t.Fatalf("request %d status = %d, want 429", tt.max+1, got)
			}
		})
	}
}

func TestLastForwarded(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"203.0.113.7", "203.0.113.7"},
		{"1.1.1.1, 203.0.113.7", "203.0.113.7"},
		{"1.1.1.1, 203.0.113.7 , ", "203.0.113.7"},
		{" , ", ""},
	}
	for _, tt := range tests {
		if got := lastForwarded(tt.header); got != tt.want {
			t.Errorf("lastForwarded(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}
