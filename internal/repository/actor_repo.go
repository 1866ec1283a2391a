package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KeplerDE/kinos-go/internal/model"
)

type ActorRepo struct {
	pool *pgxpool.Pool
}

func NewActorRepo(pool *pgxpool.Pool) *ActorRepo {
	return &ActorRepo{pool: pool}
}

// List returns all actors and directors ordered by id.
func (r *ActorRepo) List(ctx context.Context) ([]model.Actor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, age, description, image, url
		FROM actors
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[model.Actor])
}

// FindBySlug returns a single actor by url slug.
func (r *ActorRepo) FindBySlug(ctx context.Context, slug string) (*model.Actor, error) {
	var a model.Actor
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, age, description, image, url
		FROM actors
		WHERE url = $1`, slug).Scan(
		&a.ID, &a.Name, &a.Age, &a.Description, &a.Image, &a.URL,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts an actor and fills in its id.
func (r *ActorRepo) Create(ctx context.Context, a *model.Actor) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO actors (name, age, description, image, url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		a.Name, a.Age, a.Description, a.Image, a.URL,
	).Scan(&a.ID)
	return classify(err)
}
