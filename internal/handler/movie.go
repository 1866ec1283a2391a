package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/KeplerDE/kinos-go/internal/middleware"
	"github.com/KeplerDE/kinos-go/internal/model"
	"github.com/KeplerDE/kinos-go/internal/service"
)

type MovieHandler struct {
	svc *service.MovieService
}

func NewMovieHandler(svc *service.MovieService) *MovieHandler {
	return &MovieHandler{svc: svc}
}

// List handles GET /api/movies
func (h *MovieHandler) List(c fiber.Ctx) error {
	movies, err := h.svc.List(c, middleware.ClientIP(c))
	if err != nil {
		return writeError(c, err, "", "Failed to list movies")
	}
	return c.JSON(movies)
}

// Get handles GET /api/movies/:slug
func (h *MovieHandler) Get(c fiber.Ctx) error {
	slug, ok, err := slugParam(c, "Movie not found")
	if !ok {
		return err
	}

	movie, err := h.svc.Detail(c, slug)
	if err != nil {
		return writeError(c, err, "Movie not found", "Failed to load movie")
	}
	return c.JSON(movie)
}

// Create handles POST /api/admin/movies
func (h *MovieHandler) Create(c fiber.Ctx) error {
	var req model.MovieCreateRequest
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	created, err := h.svc.Create(c, req)
	if err != nil {
		return writeError(c, err, "", "Failed to create movie")
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// Delete handles DELETE /api/admin/movies/:id
func (h *MovieHandler) Delete(c fiber.Ctx) error {
	id, ok, err := idParam(c)
	if !ok {
		return err
	}

	if err := h.svc.Delete(c, id); err != nil {
		return writeError(c, err, "Movie not found", "Failed to delete movie")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
