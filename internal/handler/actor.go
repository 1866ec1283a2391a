package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/KeplerDE/kinos-go/internal/model"
	"github.com/KeplerDE/kinos-go/internal/service"
)

type ActorHandler struct {
	svc *service.ActorService
}

func NewActorHandler(svc *service.ActorService) *ActorHandler {
	return &ActorHandler{svc: svc}
}

// List handles GET /api/actors
func (h *ActorHandler) List(c fiber.Ctx) error {
	actors, err := h.svc.List(c)
	if err != nil {
		return writeError(c, err, "", "Failed to list actors")
	}
	return c.JSON(actors)
}

// Get handles GET /api/actors/:slug
func (h *ActorHandler) Get(c fiber.Ctx) error {
	slug, ok, err := slugParam(c, "Actor not found")
	if !ok {
		return err
	}

	actor, err := h.svc.Detail(c, slug)
	if err != nil {
		return writeError(c, err, "Actor not found", "Failed to load actor")
	}
	return c.JSON(actor)
}

// Create handles POST /api/admin/actors
func (h *ActorHandler) Create(c fiber.Ctx) error {
	var req model.ActorCreateRequest
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	actor, err := h.svc.Create(c, req)
	if err != nil {
		return writeError(c, err, "", "Failed to create actor")
	}
	return c.Status(fiber.StatusCreated).JSON(actor)
}
