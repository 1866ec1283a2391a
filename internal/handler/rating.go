package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/KeplerDE/kinos-go/internal/middleware"
	"github.com/KeplerDE/kinos-go/internal/model"
	"github.com/KeplerDE/kinos-go/internal/service"
)

type RatingHandler struct {
	svc *service.RatingService
}

func NewRatingHandler(svc *service.RatingService) *RatingHandler {
	return &RatingHandler{svc: svc}
}

// Create handles POST /api/ratings. The rater is identified by the resolved
// client IP; an ip field in the body is never read.
func (h *RatingHandler) Create(c fiber.Ctx) error {
	var req model.RatingCreateRequest
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	rating, err := h.svc.Rate(c, req, middleware.ClientIP(c))
	if err != nil {
		return writeError(c, err, "", "Failed to save rating")
	}
	return c.Status(fiber.StatusCreated).JSON(rating)
}

// Stars handles GET /api/stars
func (h *RatingHandler) Stars(c fiber.Ctx) error {
	stars, err := h.svc.Stars(c)
	if err != nil {
		return writeError(c, err, "", "Failed to list stars")
	}
	return c.JSON(stars)
}

// CreateStar handles POST /api/admin/stars
func (h *RatingHandler) CreateStar(c fiber.Ctx) error {
	var req model.StarCreateRequest
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	star, err := h.svc.CreateStar(c, req)
	if err != nil {
		return writeError(c, err, "", "Failed to create star")
	}
	return c.Status(fiber.StatusCreated).JSON(star)
}
