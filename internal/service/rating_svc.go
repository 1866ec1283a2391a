package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/KeplerDE/kinos-go/internal/metrics"
	"github.com/KeplerDE/kinos-go/internal/model"
)

type RatingService struct {
	ratings RatingStore
	movies  MovieLookup
}

func NewRatingService(ratings RatingStore, movies MovieLookup) *RatingService {
	return &RatingService{ratings: ratings, movies: movies}
}

// Rate records the star the client at clientIP gives a published movie.
// Rating the same movie again from the same address replaces the star.
func (s *RatingService) Rate(ctx context.Context, req model.RatingCreateRequest, clientIP string) (*model.RatingResponse, error) {
	if req.Star == nil {
		return nil, &FieldError{Field: "star", Message: "This field is required."}
	}

	star, err := s.ratings.StarByValue(ctx, *req.Star)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, doesNotExist("star", *req.Star)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup star %d: %w", *req.Star, err)
	}

	if _, err := s.movies.PublishedSlugByID(ctx, req.Movie); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, doesNotExist("movie", req.Movie)
		}
		return nil, fmt.Errorf("lookup movie %d: %w", req.Movie, err)
	}

	rt := &model.Rating{IP: clientIP, StarID: star.ID, MovieID: req.Movie}
	if err := s.ratings.Upsert(ctx, rt); err != nil {
		return nil, fmt.Errorf("save rating: %w", err)
	}

	metrics.RatingsTotal.WithLabelValues(strconv.Itoa(star.Value)).Inc()

	return &model.RatingResponse{ID: rt.ID, Star: star.Value, Movie: rt.MovieID, IP: rt.IP}, nil
}

// Stars lists the selectable star values in ascending order.
func (s *RatingService) Stars(ctx context.Context) ([]model.RatingStar, error) {
	stars, err := s.ratings.ListStars(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stars: %w", err)
	}
	return stars, nil
}

func (s *RatingService) CreateStar(ctx context.Context, req model.StarCreateRequest) (*model.RatingStar, error) {
	star := &model.RatingStar{Value: req.Value}
	if err := s.ratings.CreateStar(ctx, star); err != nil {
		return nil, fmt.Errorf("create star %d: %w", req.Value, err)
	}
	return star, nil
}
