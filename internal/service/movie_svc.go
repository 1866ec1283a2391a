package service

import (
	"context"
	"fmt"
	"time"

	"github.com/KeplerDE/kinos-go/internal/logger"
	"github.com/KeplerDE/kinos-go/internal/model"
)

// Movie defaults applied when an admin leaves the field out.
const (
	DefaultMovieYear = 2019
	premiereLayout   = "2006-01-02"
)

type MovieService struct {
	movies  MovieStore
	reviews ReviewStore
	cache   *CacheService
	media   MediaURL
	now     func() time.Time
}

func NewMovieService(movies MovieStore, reviews ReviewStore, cache *CacheService, media MediaURL) *MovieService {
	return &MovieService{movies: movies, reviews: reviews, cache: cache, media: media, now: time.Now}
}

// List returns every published movie annotated for the requesting client.
func (s *MovieService) List(ctx context.Context, clientIP string) ([]model.MovieListItem, error) {
	movies, err := s.movies.ListPublished(ctx, clientIP)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	for i := range movies {
		movies[i].Poster = s.media.Resolve(movies[i].Poster)
	}
	return movies, nil
}

// Detail returns a published movie with credits, shots and its review tree.
// Unknown and draft slugs yield pgx.ErrNoRows.
func (s *MovieService) Detail(ctx context.Context, slug string) (*model.MovieDetail, error) {
	if cached, ok := s.cache.GetMovie(ctx, slug); ok {
		return cached, nil
	}

	rec, err := s.movies.FindPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListByMovie(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("list reviews of movie %d: %w", rec.ID, err)
	}

	detail := s.toDetail(rec)
	detail.Reviews = BuildReviewTree(reviews)

	s.cache.SetMovie(ctx, detail)
	return detail, nil
}

func (s *MovieService) toDetail(rec *model.MovieRecord) *model.MovieDetail {
	d := &model.MovieDetail{
		ID:            rec.ID,
		Title:         rec.Title,
		Tagline:       rec.Tagline,
		Description:   rec.Description,
		Poster:        s.media.Resolve(rec.Poster),
		Year:          rec.Year,
		Country:       rec.Country,
		WorldPremiere: rec.WorldPremiere.Format(premiereLayout),
		Budget:        rec.Budget,
		FeesInUSA:     rec.FeesInUSA,
		FeesInWorld:   rec.FeesInWorld,
		Category:      rec.CategoryName,
		URL:           rec.URL,
		Actors:        s.credits(rec.Actors),
		Directors:     s.credits(rec.Directors),
		Genres:        make([]string, 0, len(rec.Genres)),
		Shots:         make([]model.MovieShot, 0, len(rec.Shots)),
	}
	for _, g := range rec.Genres {
		d.Genres = append(d.Genres, g.Name)
	}
	for _, sh := range rec.Shots {
		sh.Image = s.media.Resolve(sh.Image)
		d.Shots = append(d.Shots, sh)
	}
	return d
}

func (s *MovieService) credits(in []model.ActorSummary) []model.ActorSummary {
	out := make([]model.ActorSummary, 0, len(in))
	for _, a := range in {
		a.Image = s.media.Resolve(a.Image)
		out = append(out, a)
	}
	return out
}

// Create adds a movie with its credits and genres.
func (s *MovieService) Create(ctx context.Context, req model.MovieCreateRequest) (*model.MovieCreated, error) {
	url, err := deriveSlug(req.URL, req.Title)
	if err != nil {
		return nil, err
	}

	premiere := s.now().UTC().Truncate(24 * time.Hour)
	if req.WorldPremiere != "" {
		premiere, err = time.Parse(premiereLayout, req.WorldPremiere)
		if err != nil {
			return nil, &FieldError{Field: "world_premiere", Message: "Date has wrong format. Use YYYY-MM-DD."}
		}
	}

	year := req.Year
	if year == 0 {
		year = DefaultMovieYear
	}

	m := &model.Movie{
		Title:         req.Title,
		Tagline:       req.Tagline,
		Description:   req.Description,
		Poster:        req.Poster,
		Year:          year,
		Country:       req.Country,
		WorldPremiere: premiere,
		Budget:        req.Budget,
		FeesInUSA:     req.FeesInUSA,
		FeesInWorld:   req.FeesInWorld,
		CategoryID:    req.Category,
		URL:           url,
		Draft:         req.Draft,
	}
	links := model.MovieLinks{Actors: req.Actors, Directors: req.Directors, Genres: req.Genres}
	if err := s.movies.Create(ctx, m, links); err != nil {
		return nil, fmt.Errorf("create movie %q: %w", url, err)
	}

	logger.Log.Info().Int64("movie_id", m.ID).Str("url", m.URL).Bool("draft", m.Draft).Msg("movie created")
	return &model.MovieCreated{ID: m.ID, URL: m.URL, Draft: m.Draft}, nil
}

// Delete removes a movie together with everything that hangs off it.
func (s *MovieService) Delete(ctx context.Context, id int64) error {
	slug, err := s.movies.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.cache.InvalidateMovie(ctx, slug)
	logger.Log.Info().Int64("movie_id", id).Str("url", slug).Msg("movie deleted")
	return nil
}
