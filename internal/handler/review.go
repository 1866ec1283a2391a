package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/KeplerDE/kinos-go/internal/model"
	"github.com/KeplerDE/kinos-go/internal/service"
)

type ReviewHandler struct {
	svc *service.ReviewService
}

func NewReviewHandler(svc *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// Create handles POST /api/reviews
func (h *ReviewHandler) Create(c fiber.Ctx) error {
	var req model.ReviewCreateRequest
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	review, err := h.svc.Create(c, req)
	if err != nil {
		return writeError(c, err, "", "Failed to save review")
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// Delete handles DELETE /api/admin/reviews/:id
func (h *ReviewHandler) Delete(c fiber.Ctx) error {
	id, ok, err := idParam(c)
	if !ok {
		return err
	}

	if err := h.svc.Delete(c, id); err != nil {
		return writeError(c, err, "Review not found", "Failed to delete review")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
