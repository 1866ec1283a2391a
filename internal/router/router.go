package router

import (
	"os"

	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/gofiber/fiber/v3/middleware/static"
	"github.com/google/uuid"

	"github.com/KeplerDE/kinos-go/internal/handler"
	"github.com/KeplerDE/kinos-go/internal/logger"
	"github.com/KeplerDE/kinos-go/internal/metrics"
	"github.com/KeplerDE/kinos-go/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Movie   *handler.MovieHandler
	Actor   *handler.ActorHandler
	Review  *handler.ReviewHandler
	Rating  *handler.RatingHandler
	Catalog *handler.CatalogHandler
	Stats   *handler.StatsHandler
	Health  *handler.HealthHandler
}

// Options carries the settings the route table depends on.
type Options struct {
	CORSOrigins string
	AdminToken  string
	// MediaRoot is served under /media when the directory exists.
	MediaRoot string
}

// Setup configures the middleware stack and all API routes on the given Fiber
// app.
func Setup(app *fiber.App, h *Handlers, opts Options) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.NewRequestLogger())
	app.Use(metrics.Middleware())
	app.Use(middleware.NewCORS(opts.CORSOrigins))

	// Health and metrics (outside /api, no rate limit)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", metrics.Handler())

	if opts.MediaRoot != "" {
		if info, err := os.Stat(opts.MediaRoot); err == nil && info.IsDir() {
			app.Use("/media", static.New(opts.MediaRoot))
		} else {
			logger.Log.Warn().Str("media_root", opts.MediaRoot).Msg("media root not found, /media not served")
		}
	}

	readLimit := middleware.NewReadRateLimiter()
	reviewLimit := middleware.NewReviewRateLimiter()
	ratingLimit := middleware.NewRatingRateLimiter()

	// API routes
	api := app.Group("/api")

	// Catalog reads
	api.Get("/movies", readLimit, h.Movie.List)
	api.Get("/movies/:slug", readLimit, h.Movie.Get)
	api.Get("/actors", readLimit, h.Actor.List)
	api.Get("/actors/:slug", readLimit, h.Actor.Get)
	api.Get("/categories", readLimit, h.Catalog.Categories)
	api.Get("/genres", readLimit, h.Catalog.Genres)
	api.Get("/stars", readLimit, h.Rating.Stars)
	api.Get("/stats", readLimit, h.Stats.GetStats)

	// Visitor writes
	api.Post("/reviews", reviewLimit, h.Review.Create)
	api.Post("/ratings", ratingLimit, h.Rating.Create)

	// Catalog administration
	admin := api.Group("/admin", middleware.NewAdminAuth(opts.AdminToken))
	admin.Post("/categories", h.Catalog.CreateCategory)
	admin.Post("/genres", h.Catalog.CreateGenre)
	admin.Post("/actors", h.Actor.Create)
	admin.Post("/movies", h.Movie.Create)
	admin.Post("/movies/:id/shots", h.Catalog.CreateShot)
	admin.Delete("/movies/:id", h.Movie.Delete)
	admin.Delete("/reviews/:id", h.Review.Delete)
	admin.Post("/stars", h.Rating.CreateStar)
}
