package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", []string{"*"}},
		{"*", []string{"*"}},
		{" , ", []string{"*"}},
		{"https://kinos.example", []string{"https://kinos.example"}},
		{"https://a.example/, http://localhost:3000", []string{"https://a.example", "http://localhost:3000"}},
		{"https://a.example,*", []string{"*"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseOrigins(tt.raw), "raw=%q", tt.raw)
	}
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	app := fiber.New()
	app.Use(NewCORS("https://kinos.example"))
	app.Get("/", func(c fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderOrigin, "https://kinos.example")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "https://kinos.example", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))

	req = httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderOrigin, "https://evil.example")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Empty(t, resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
}
