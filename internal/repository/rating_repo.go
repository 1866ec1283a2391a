package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KeplerDE/kinos-go/internal/model"
)

type RatingRepo struct {
	pool *pgxpool.Pool
}

func NewRatingRepo(pool *pgxpool.Pool) *RatingRepo {
	return &RatingRepo{pool: pool}
}

// StarByValue returns the star row with the given value, or pgx.ErrNoRows.
func (r *RatingRepo) StarByValue(ctx context.Context, value int) (*model.RatingStar, error) {
	var s model.RatingStar
	err := r.pool.QueryRow(ctx, `SELECT id, value FROM rating_stars WHERE value = $1`, value).Scan(&s.ID, &s.Value)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListStars returns all star values in ascending order.
func (r *RatingRepo) ListStars(ctx context.Context) ([]model.RatingStar, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, value FROM rating_stars ORDER BY value`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[model.RatingStar])
}

// CreateStar inserts a star value and fills in its id.
func (r *RatingRepo) CreateStar(ctx context.Context, s *model.RatingStar) error {
	err := r.pool.QueryRow(ctx, `INSERT INTO rating_stars (value) VALUES ($1) RETURNING id`, s.Value).Scan(&s.ID)
	return classify(err)
}

// Upsert stores a client's rating of a movie. A second rating from the same
// IP replaces the star of the first one.
func (r *RatingRepo) Upsert(ctx context.Context, rt *model.Rating) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO ratings (ip, star_id, movie_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (ip, movie_id) DO UPDATE
		SET star_id = EXCLUDED.star_id
		RETURNING id`,
		rt.IP, rt.StarID, rt.MovieID,
	).Scan(&rt.ID)
	return classify(err)
}
