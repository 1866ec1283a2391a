package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/KeplerDE/kinos-go/internal/logger"
	"github.com/KeplerDE/kinos-go/internal/model"
	"github.com/KeplerDE/kinos-go/internal/repository"
)

// SeedFile is the catalog.json layout read by catalogctl seed. Movies refer to
// categories, genres and people by url slug.
type SeedFile struct {
	Categories []model.CategoryCreateRequest `json:"categories"`
	Genres     []model.CategoryCreateRequest `json:"genres"`
	Actors     []model.ActorCreateRequest    `json:"actors"`
	Stars      []int                         `json:"stars"`
	Movies     []SeedMovie                   `json:"movies"`
}

// SeedMovie overrides the id references of MovieCreateRequest with slugs.
type SeedMovie struct {
	model.MovieCreateRequest
	Category  string   `json:"category"`
	Actors    []string `json:"actors"`
	Directors []string `json:"directors"`
	Genres    []string `json:"genres"`
}

// SeedReport counts rows per table. Skipped rows already existed.
type SeedReport struct {
	Created map[string]int `json:"created"`
	Skipped map[string]int `json:"skipped"`
}

// Seeder loads a SeedFile through the catalog services, so seeded rows get
// the same slugs and defaults as rows added over the admin API.
type Seeder struct {
	Movies   *MovieService
	Actors   *ActorService
	Catalog  *CatalogService
	Ratings  *RatingService
	Validate func(any) map[string]string
}

// Run creates everything in f in dependency order. Rows whose url already
// exists are skipped, which makes seeding the same file twice harmless.
func (s *Seeder) Run(ctx context.Context, f *SeedFile) (*SeedReport, error) {
	report := &SeedReport{Created: map[string]int{}, Skipped: map[string]int{}}

	for _, v := range f.Stars {
		_, err := s.Ratings.CreateStar(ctx, model.StarCreateRequest{Value: v})
		if err := report.record("stars", fmt.Sprint(v), err); err != nil {
			return report, err
		}
	}
	for _, req := range f.Categories {
		if err := s.check("category", req.Name, req); err != nil {
			return report, err
		}
		_, err := s.Catalog.CreateCategory(ctx, req)
		if err := report.record("categories", req.Name, err); err != nil {
			return report, err
		}
	}
	for _, req := range f.Genres {
		if err := s.check("genre", req.Name, req); err != nil {
			return report, err
		}
		_, err := s.Catalog.CreateGenre(ctx, req)
		if err := report.record("genres", req.Name, err); err != nil {
			return report, err
		}
	}
	for _, req := range f.Actors {
		if err := s.check("actor", req.Name, req); err != nil {
			return report, err
		}
		_, err := s.Actors.Create(ctx, req)
		if err := report.record("actors", req.Name, err); err != nil {
			return report, err
		}
	}

	if len(f.Movies) == 0 {
		return report, nil
	}
	refs, err := s.loadRefs(ctx)
	if err != nil {
		return report, err
	}
	for _, sm := range f.Movies {
		req, err := refs.resolve(sm)
		if err != nil {
			return report, err
		}
		if err := s.check("movie", req.Title, req); err != nil {
			return report, err
		}
		_, err = s.Movies.Create(ctx, req)
		if err := report.record("movies", req.Title, err); err != nil {
			return report, err
		}
	}
	return report, nil
}

func (s *Seeder) check(kind, name string, v any) error {
	if s.Validate == nil {
		return nil
	}
	fields := s.Validate(v)
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fields[k])
	}
	return fmt.Errorf("%s %q: %s", kind, name, strings.Join(parts, "; "))
}

func (r *SeedReport) record(table, name string, err error) error {
	switch {
	case err == nil:
		r.Created[table]++
		return nil
	case errors.Is(err, repository.ErrConflict):
		r.Skipped[table]++
		logger.Log.Debug().Str("table", table).Str("name", name).Msg("seed: already exists")
		return nil
	default:
		return fmt.Errorf("seed %s %q: %w", table, name, err)
	}
}

type seedRefs struct {
	categories map[string]int64
	genres     map[string]int64
	actors     map[string]int64
}

func (s *Seeder) loadRefs(ctx context.Context) (*seedRefs, error) {
	refs := &seedRefs{
		categories: map[string]int64{},
		genres:     map[string]int64{},
		actors:     map[string]int64{},
	}
	categories, err := s.Catalog.Categories(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		refs.categories[c.URL] = c.ID
	}
	genres, err := s.Catalog.Genres(ctx)
	if err != nil {
		return nil, err
	}
	for _, g := range genres {
		refs.genres[g.URL] = g.ID
	}
	actors, err := s.Actors.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range actors {
		refs.actors[a.URL] = a.ID
	}
	return refs, nil
}

func (r *seedRefs) resolve(sm SeedMovie) (model.MovieCreateRequest, error) {
	req := sm.MovieCreateRequest
	if sm.Category != "" {
		id, ok := r.categories[sm.Category]
		if !ok {
			return req, fmt.Errorf("movie %q: unknown category %q", req.Title, sm.Category)
		}
		req.Category = &id
	}

	var err error
	if req.Actors, err = lookupAll(r.actors, sm.Actors, "actor", req.Title); err != nil {
		return req, err
	}
	if req.Directors, err = lookupAll(r.actors, sm.Directors, "director", req.Title); err != nil {
		return req, err
	}
	if req.Genres, err = lookupAll(r.genres, sm.Genres, "genre", req.Title); err != nil {
		return req, err
	}
	return req, nil
}

func lookupAll(index map[string]int64, slugs []string, kind, title string) ([]int64, error) {
	ids := make([]int64, 0, len(slugs))
	for _, s := range slugs {
		id, ok := index[s]
		if !ok {
			return nil, fmt.Errorf("movie %q: unknown %s %q", title, kind, s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
