package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/KeplerDE/kinos-go/internal/service"
)

type StatsHandler struct {
	svc *service.CatalogService
}

func NewStatsHandler(svc *service.CatalogService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// GetStats handles GET /api/stats
func (h *StatsHandler) GetStats(c fiber.Ctx) error {
	stats, err := h.svc.Stats(c)
	if err != nil {
		return writeError(c, err, "", "Failed to fetch statistics")
	}

	return c.JSON(stats)
}
