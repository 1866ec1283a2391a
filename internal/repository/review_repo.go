package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KeplerDE/kinos-go/internal/model"
)

type ReviewRepo struct {
	pool *pgxpool.Pool
}

func NewReviewRepo(pool *pgxpool.Pool) *ReviewRepo {
	return &ReviewRepo{pool: pool}
}

// FindByID returns a single review, or pgx.ErrNoRows.
func (r *ReviewRepo) FindByID(ctx context.Context, id int64) (*model.Review, error) {
	var rv model.Review
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, name, text, parent_id, movie_id
		FROM reviews
		WHERE id = $1`, id).Scan(
		&rv.ID, &rv.Email, &rv.Name, &rv.Text, &rv.ParentID, &rv.MovieID,
	)
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

// ListByMovie returns every review of a movie, replies included, oldest first.
func (r *ReviewRepo) ListByMovie(ctx context.Context, movieID int64) ([]model.Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, name, text, parent_id, movie_id
		FROM reviews
		WHERE movie_id = $1
		ORDER BY id`, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ID, &rv.Email, &rv.Name, &rv.Text, &rv.ParentID, &rv.MovieID); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

// Create inserts a review and fills in its id.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO reviews (email, name, text, parent_id, movie_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		rv.Email, rv.Name, rv.Text, rv.ParentID, rv.MovieID,
	).Scan(&rv.ID)
	return classify(err)
}

// Delete removes a review. Replies survive with parent_id set to NULL.
// Returns the slug of the reviewed movie, or pgx.ErrNoRows.
func (r *ReviewRepo) Delete(ctx context.Context, id int64) (string, error) {
	var slug string
	err := r.pool.QueryRow(ctx, `
		DELETE FROM reviews rv
		USING movies m
		WHERE rv.id = $1 AND m.id = rv.movie_id
		RETURNING m.url`, id).Scan(&slug)
	return slug, err
}
