package service

import (
	"context"
	"fmt"

	"github.com/KeplerDE/kinos-go/internal/model"
)

type ActorService struct {
	actors ActorStore
	cache  *CacheService
	media  MediaURL
}

func NewActorService(actors ActorStore, cache *CacheService, media MediaURL) *ActorService {
	return &ActorService{actors: actors, cache: cache, media: media}
}

// List returns every actor and director ordered by id.
func (s *ActorService) List(ctx context.Context) ([]model.ActorSummary, error) {
	actors, err := s.actors.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list actors: %w", err)
	}
	out := make([]model.ActorSummary, 0, len(actors))
	for _, a := range actors {
		out = append(out, model.ActorSummary{
			ID:    a.ID,
			Name:  a.Name,
			Image: s.media.Resolve(a.Image),
			URL:   a.URL,
		})
	}
	return out, nil
}

// Detail returns one actor by url slug, or pgx.ErrNoRows.
func (s *ActorService) Detail(ctx context.Context, slug string) (*model.ActorDetail, error) {
	if cached, ok := s.cache.GetActor(ctx, slug); ok {
		return cached, nil
	}

	a, err := s.actors.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	detail := &model.ActorDetail{
		ID:          a.ID,
		Name:        a.Name,
		Age:         a.Age,
		Description: a.Description,
		Image:       s.media.Resolve(a.Image),
	}
	s.cache.SetActor(ctx, slug, detail)
	return detail, nil
}

// Create adds an actor or director. The url is derived from the name when
// the request leaves it out.
func (s *ActorService) Create(ctx context.Context, req model.ActorCreateRequest) (*model.ActorSummary, error) {
	url, err := deriveSlug(req.URL, req.Name)
	if err != nil {
		return nil, err
	}
	a := &model.Actor{
		Name:        req.Name,
		Age:         req.Age,
		Description: req.Description,
		Image:       req.Image,
		URL:         url,
	}
	if err := s.actors.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create actor %q: %w", url, err)
	}
	return &model.ActorSummary{ID: a.ID, Name: a.Name, Image: s.media.Resolve(a.Image), URL: a.URL}, nil
}
