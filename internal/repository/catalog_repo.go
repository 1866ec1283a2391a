package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KeplerDE/kinos-go/internal/model"
)

// CatalogRepo covers the reference tables (categories, genres), movie shots
// and catalog-wide counters.
type CatalogRepo struct {
	pool *pgxpool.Pool
}

func NewCatalogRepo(pool *pgxpool.Pool) *CatalogRepo {
	return &CatalogRepo{pool: pool}
}

func (r *CatalogRepo) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, description, url FROM categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[model.Category])
}

func (r *CatalogRepo) CreateCategory(ctx context.Context, c *model.Category) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO categories (name, description, url)
		VALUES ($1, $2, $3)
		RETURNING id`, c.Name, c.Description, c.URL).Scan(&c.ID)
	return classify(err)
}

func (r *CatalogRepo) ListGenres(ctx context.Context) ([]model.Genre, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, description, url FROM genres ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[model.Genre])
}

func (r *CatalogRepo) CreateGenre(ctx context.Context, g *model.Genre) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO genres (name, description, url)
		VALUES ($1, $2, $3)
		RETURNING id`, g.Name, g.Description, g.URL).Scan(&g.ID)
	return classify(err)
}

// CreateShot attaches a still to a movie. An unknown movie id yields ErrReference.
func (r *CatalogRepo) CreateShot(ctx context.Context, s *model.MovieShot) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO movie_shots (title, description, image, movie_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`, s.Title, s.Description, s.Image, s.MovieID).Scan(&s.ID)
	return classify(err)
}

// Stats returns row counts across the catalog.
func (r *CatalogRepo) Stats(ctx context.Context) (*model.StatsResponse, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM movies WHERE draft = false) AS movies,
			(SELECT COUNT(*) FROM movies WHERE draft = true) AS draft_movies,
			(SELECT COUNT(*) FROM actors) AS actors,
			(SELECT COUNT(*) FROM genres) AS genres,
			(SELECT COUNT(*) FROM categories) AS categories,
			(SELECT COUNT(*) FROM reviews) AS reviews,
			(SELECT COUNT(*) FROM ratings) AS ratings`

	var s model.StatsResponse
	err := r.pool.QueryRow(ctx, query).Scan(
		&s.Movies, &s.DraftMovies, &s.Actors, &s.Genres,
		&s.Categories, &s.Reviews, &s.Ratings,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
