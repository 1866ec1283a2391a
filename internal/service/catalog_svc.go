package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"

	"github.com/KeplerDE/kinos-go/internal/model"
)

// maxGenreName is tighter than the shared category/genre request limit.
const maxGenreName = 100

// CatalogService manages the reference tables, movie stills and counters.
type CatalogService struct {
	catalog CatalogStore
	movies  MovieLookup
	cache   *CacheService
	media   MediaURL
}

func NewCatalogService(catalog CatalogStore, movies MovieLookup, cache *CacheService, media MediaURL) *CatalogService {
	return &CatalogService{catalog: catalog, movies: movies, cache: cache, media: media}
}

func (s *CatalogService) Categories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *CatalogService) Genres(ctx context.Context) ([]model.Genre, error) {
	genres, err := s.catalog.ListGenres(ctx)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return genres, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, req model.CategoryCreateRequest) (*model.Category, error) {
	url, err := deriveSlug(req.URL, req.Name)
	if err != nil {
		return nil, err
	}
	c := &model.Category{Name: req.Name, Description: req.Description, URL: url}
	if err := s.catalog.CreateCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("create category %q: %w", url, err)
	}
	return c, nil
}

func (s *CatalogService) CreateGenre(ctx context.Context, req model.CategoryCreateRequest) (*model.Genre, error) {
	if utf8.RuneCountInString(req.Name) > maxGenreName {
		return nil, &FieldError{Field: "name", Message: fmt.Sprintf("Ensure this field has no more than %d characters.", maxGenreName)}
	}
	url, err := deriveSlug(req.URL, req.Name)
	if err != nil {
		return nil, err
	}
	g := &model.Genre{Name: req.Name, Description: req.Description, URL: url}
	if err := s.catalog.CreateGenre(ctx, g); err != nil {
		return nil, fmt.Errorf("create genre %q: %w", url, err)
	}
	return g, nil
}

// CreateShot attaches a still to a movie. Drafts accept shots too; only a
// published movie has a cached page to drop.
func (s *CatalogService) CreateShot(ctx context.Context, movieID int64, req model.ShotCreateRequest) (*model.MovieShot, error) {
	shot := &model.MovieShot{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		MovieID:     movieID,
	}
	if err := s.catalog.CreateShot(ctx, shot); err != nil {
		return nil, fmt.Errorf("create shot for movie %d: %w", movieID, err)
	}

	slug, err := s.movies.PublishedSlugByID(ctx, movieID)
	switch {
	case err == nil:
		s.cache.InvalidateMovie(ctx, slug)
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("lookup movie %d: %w", movieID, err)
	}

	shot.Image = s.media.Resolve(shot.Image)
	return shot, nil
}

func (s *CatalogService) Stats(ctx context.Context) (*model.StatsResponse, error) {
	stats, err := s.catalog.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog stats: %w", err)
	}
	return stats, nil
}
