package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/KeplerDE/kinos-go/internal/config"
	"github.com/KeplerDE/kinos-go/internal/db"
	"github.com/KeplerDE/kinos-go/internal/handler"
	"github.com/KeplerDE/kinos-go/internal/logger"
	"github.com/KeplerDE/kinos-go/internal/metrics"
	"github.com/KeplerDE/kinos-go/internal/repository"
	"github.com/KeplerDE/kinos-go/internal/router"
	"github.com/KeplerDE/kinos-go/internal/service"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", "kinos-api", "")
		logger.Log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(cfg.LogLevel, "kinos-api", cfg.LogFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		applied, err := db.Migrate(ctx, pool)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("migration failed")
		}
		logger.Log.Info().Strs("applied", applied).Msg("migrations up to date")
	}

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()
	if cache.Client() != nil {
		go service.NewInvalidationWorker(pool, cache, time.Second).Start(ctx)
	}

	metrics.Register(pool)

	movieRepo := repository.NewMovieRepo(pool)
	reviewRepo := repository.NewReviewRepo(pool)
	media := service.MediaURL(cfg.MediaURL)

	movies := service.NewMovieService(movieRepo, reviewRepo, cache, media)
	actors := service.NewActorService(repository.NewActorRepo(pool), cache, media)
	reviews := service.NewReviewService(reviewRepo, movieRepo, cache)
	ratings := service.NewRatingService(repository.NewRatingRepo(pool), movieRepo)
	catalog := service.NewCatalogService(repository.NewCatalogRepo(pool), movieRepo, cache, media)

	app := fiber.New(fiber.Config{
		AppName:      "Kinos API",
		ServerHeader: "Kinos",
		ErrorHandler: handler.ErrorHandler,
		TrustProxy:   len(cfg.TrustedProxies) > 0,
		TrustProxyConfig: fiber.TrustProxyConfig{
			Proxies: cfg.TrustedProxies,
		},
	})

	router.Setup(app, &router.Handlers{
		Movie:   handler.NewMovieHandler(movies),
		Actor:   handler.NewActorHandler(actors),
		Review:  handler.NewReviewHandler(reviews),
		Rating:  handler.NewRatingHandler(ratings),
		Catalog: handler.NewCatalogHandler(catalog),
		Stats:   handler.NewStatsHandler(catalog),
		Health:  handler.NewHealthHandler(pool, cache.Client(), version),
	}, router.Options{
		CORSOrigins: cfg.CORSOrigins,
		AdminToken:  cfg.AdminToken,
		MediaRoot:   cfg.MediaRoot,
	})

	if cfg.AdminToken == "" {
		logger.Log.Warn().Msg("ADMIN_TOKEN not set, admin routes disabled")
	}

	go func() {
		<-ctx.Done()
		logger.Log.Info().Dur("timeout", cfg.ShutdownTimeout).Msg("shutting down")
		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
			logger.Log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	logger.Log.Info().
		Str("port", cfg.Port).
		Str("env", cfg.Environment).
		Msg("Kinos backend starting")

	err = app.Listen(":"+cfg.Port, fiber.ListenConfig{DisableStartupMessage: cfg.IsProduction()})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Log.Fatal().Err(err).Msg("server stopped")
	}
}
