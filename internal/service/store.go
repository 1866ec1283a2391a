package service

import (
	"context"
	"fmt"

	"github.com/KeplerDE/kinos-go/internal/model"
)

// The store interfaces below are satisfied by the pgx repositories in
// internal/repository and by the in-memory store in servicetest. Lookups
// report a missing row with pgx.ErrNoRows.

type MovieStore interface {
	ListPublished(ctx context.Context, clientIP string) ([]model.MovieListItem, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*model.MovieRecord, error)
	PublishedSlugByID(ctx context.Context, id int64) (string, error)
	Create(ctx context.Context, m *model.Movie, links model.MovieLinks) error
	Delete(ctx context.Context, id int64) (string, error)
}

// MovieLookup resolves the slug of a published movie.
type MovieLookup interface {
	PublishedSlugByID(ctx context.Context, id int64) (string, error)
}

type ActorStore interface {
	List(ctx context.Context) ([]model.Actor, error)
	FindBySlug(ctx context.Context, slug string) (*model.Actor, error)
	Create(ctx context.Context, a *model.Actor) error
}

type ReviewStore interface {
	FindByID(ctx context.Context, id int64) (*model.Review, error)
	ListByMovie(ctx context.Context, movieID int64) ([]model.Review, error)
	Create(ctx context.Context, rv *model.Review) error
	Delete(ctx context.Context, id int64) (string, error)
}

type RatingStore interface {
	StarByValue(ctx context.Context, value int) (*model.RatingStar, error)
	ListStars(ctx context.Context) ([]model.RatingStar, error)
	CreateStar(ctx context.Context, s *model.RatingStar) error
	Upsert(ctx context.Context, rt *model.Rating) error
}

type CatalogStore interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, c *model.Category) error
	ListGenres(ctx context.Context) ([]model.Genre, error)
	CreateGenre(ctx context.Context, g *model.Genre) error
	CreateShot(ctx context.Context, s *model.MovieShot) error
	Stats(ctx context.Context) (*model.StatsResponse, error)
}

// FieldError is a business rule violation tied to one request field. Handlers
// report it the same way as a failed validate tag.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func doesNotExist(field string, id any) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf("Invalid pk %q - object does not exist.", fmt.Sprint(id))}
}
