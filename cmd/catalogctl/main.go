// Command catalogctl maintains the Kinos catalog database: it applies the
// schema migrations, loads catalog.json seed files and prints counters.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KeplerDE/kinos-go/internal/config"
	"github.com/KeplerDE/kinos-go/internal/db"
	"github.com/KeplerDE/kinos-go/internal/logger"
	"github.com/KeplerDE/kinos-go/internal/middleware"
	"github.com/KeplerDE/kinos-go/internal/repository"
	"github.com/KeplerDE/kinos-go/internal/service"
)

var (
	app = kingpin.New("catalogctl", "Kinos catalog maintenance.")

	databaseURL = app.Flag("database-url", "PostgreSQL connection string (defaults to DATABASE_URL).").String()
	logLevel    = app.Flag("log-level", "Log level.").Default("info").Enum("debug", "info", "warn", "error")

	migrateCmd = app.Command("migrate", "Apply pending schema migrations.")

	seedCmd  = app.Command("seed", "Load categories, genres, actors, stars and movies from a JSON file.")
	seedFile = seedCmd.Flag("file", "Seed file, - for stdin.").Short('f').Default("catalog.json").String()

	statsCmd = app.Command("stats", "Print catalog counters as JSON.")
)

func main() {
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.Load()
	app.FatalIfError(err, "config")
	logger.Init(*logLevel, "catalogctl", "")
	if *databaseURL != "" {
		cfg.DatabaseURL = *databaseURL
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	app.FatalIfError(err, "connect")
	defer pool.Close()

	switch cmd {
	case migrateCmd.FullCommand():
		err = runMigrate(ctx, pool)
	case seedCmd.FullCommand():
		err = runSeed(ctx, pool, cfg, *seedFile)
	case statsCmd.FullCommand():
		err = runStats(ctx, pool)
	}
	app.FatalIfError(err, "%s", cmd)
}

func runMigrate(ctx context.Context, pool *pgxpool.Pool) error {
	applied, err := db.Migrate(ctx, pool)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		fmt.Println("schema is up to date")
		return nil
	}
	for _, v := range applied {
		fmt.Println("applied", v)
	}
	return nil
}

func runSeed(ctx context.Context, pool *pgxpool.Pool, cfg *config.Config, path string) error {
	in := os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	raw, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	var file service.SeedFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if _, err := db.Migrate(ctx, pool); err != nil {
		return err
	}

	movieRepo := repository.NewMovieRepo(pool)
	media := service.MediaURL(cfg.MediaURL)
	// No cache here: API instances drop stale pages when the movie_changes
	// notifications arrive.
	seeder := &service.Seeder{
		Movies:   service.NewMovieService(movieRepo, repository.NewReviewRepo(pool), nil, media),
		Actors:   service.NewActorService(repository.NewActorRepo(pool), nil, media),
		Catalog:  service.NewCatalogService(repository.NewCatalogRepo(pool), movieRepo, nil, media),
		Ratings:  service.NewRatingService(repository.NewRatingRepo(pool), movieRepo),
		Validate: middleware.ValidateStruct,
	}
	report, err := seeder.Run(ctx, &file)
	if report != nil {
		printJSON(report)
	}
	return err
}

func runStats(ctx context.Context, pool *pgxpool.Pool) error {
	stats, err := repository.NewCatalogRepo(pool).Stats(ctx)
	if err != nil {
		return err
	}
	printJSON(stats)
	return nil
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
