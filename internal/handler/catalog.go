package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/KeplerDE/kinos-go/internal/model"
	"github.com/KeplerDE/kinos-go/internal/service"
)

// CatalogHandler serves the reference tables and movie stills.
type CatalogHandler struct {
	svc *service.CatalogService
}

func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// Categories handles GET /api/categories
func (h *CatalogHandler) Categories(c fiber.Ctx) error {
	categories, err := h.svc.Categories(c)
	if err != nil {
		return writeError(c, err, "", "Failed to list categories")
	}
	return c.JSON(categories)
}

// Genres handles GET /api/genres
func (h *CatalogHandler) Genres(c fiber.Ctx) error {
	genres, err := h.svc.Genres(c)
	if err != nil {
		return writeError(c, err, "", "Failed to list genres")
	}
	return c.JSON(genres)
}

// CreateCategory handles POST /api/admin/categories
func (h *CatalogHandler) CreateCategory(c fiber.Ctx) error {
	var req model.CategoryCreateRequest
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	category, err := h.svc.CreateCategory(c, req)
	if err != nil {
		return writeError(c, err, "", "Failed to create category")
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// CreateGenre handles POST /api/admin/genres
func (h *CatalogHandler) CreateGenre(c fiber.Ctx) error {
	var req model.CategoryCreateRequest
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	genre, err := h.svc.CreateGenre(c, req)
	if err != nil {
		return writeError(c, err, "", "Failed to create genre")
	}
	return c.Status(fiber.StatusCreated).JSON(genre)
}

// CreateShot handles POST /api/admin/movies/:id/shots
func (h *CatalogHandler) CreateShot(c fiber.Ctx) error {
	movieID, ok, err := idParam(c)
	if !ok {
		return err
	}
	var req model.ShotCreateRequest
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	shot, err := h.svc.CreateShot(c, movieID, req)
	if err != nil {
		return writeError(c, err, "", "Failed to create shot")
	}
	return c.Status(fiber.StatusCreated).JSON(shot)
}
