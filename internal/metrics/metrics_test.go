package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_LabelsRenderedStatus(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/movies/:slug", func(fiber.Ctx) error { return fiber.ErrNotFound })
	app.Get("/broken", func(fiber.Ctx) error { return errors.New("boom") })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/movies/heat", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.True(t, RequestDuration.DeleteLabelValues("/movies/:slug", fiber.MethodGet, "404"))
	assert.False(t, RequestDuration.DeleteLabelValues("/movies/:slug", fiber.MethodGet, "200"))

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/broken", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.True(t, RequestDuration.DeleteLabelValues("/broken", fiber.MethodGet, "500"))
}

func TestHandler_ServesExposition(t *testing.T) {
	app := fiber.New()
	app.Get("/metrics", Handler())

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "go_goroutines")
}
