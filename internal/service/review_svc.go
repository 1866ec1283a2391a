package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/KeplerDE/kinos-go/internal/metrics"
	"github.com/KeplerDE/kinos-go/internal/model"
)

type ReviewService struct {
	reviews ReviewStore
	movies  MovieLookup
	cache   *CacheService
}

func NewReviewService(reviews ReviewStore, movies MovieLookup, cache *CacheService) *ReviewService {
	return &ReviewService{reviews: reviews, movies: movies, cache: cache}
}

// Create stores a review of a published movie. A reply must point at a
// review of the same movie.
func (s *ReviewService) Create(ctx context.Context, req model.ReviewCreateRequest) (*model.ReviewResponse, error) {
	slug, err := s.movies.PublishedSlugByID(ctx, req.Movie)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, doesNotExist("movie", req.Movie)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup movie %d: %w", req.Movie, err)
	}

	if req.Parent != nil {
		parent, err := s.reviews.FindByID(ctx, *req.Parent)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, doesNotExist("parent", *req.Parent)
		}
		if err != nil {
			return nil, fmt.Errorf("lookup parent review %d: %w", *req.Parent, err)
		}
		if parent.MovieID != req.Movie {
			return nil, &FieldError{Field: "parent", Message: "Parent review belongs to a different movie."}
		}
	}

	rv := &model.Review{
		Email:    req.Email,
		Name:     req.Name,
		Text:     req.Text,
		ParentID: req.Parent,
		MovieID:  req.Movie,
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	metrics.ReviewsTotal.Inc()
	s.cache.InvalidateMovie(ctx, slug)

	return &model.ReviewResponse{
		ID:     rv.ID,
		Email:  rv.Email,
		Name:   rv.Name,
		Text:   rv.Text,
		Parent: rv.ParentID,
		Movie:  rv.MovieID,
	}, nil
}

// Delete removes a review; its replies move up to the top level.
func (s *ReviewService) Delete(ctx context.Context, id int64) error {
	slug, err := s.reviews.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.cache.InvalidateMovie(ctx, slug)
	return nil
}

// BuildReviewTree nests replies under their parents. Roots are the reviews
// without a parent, and siblings keep the order of the input.
func BuildReviewTree(reviews []model.Review) []model.ReviewNode {
	children := make(map[int64][]model.Review)
	var roots []model.Review
	for _, rv := range reviews {
		if rv.ParentID == nil {
			roots = append(roots, rv)
			continue
		}
		children[*rv.ParentID] = append(children[*rv.ParentID], rv)
	}

	var build func(rv model.Review) model.ReviewNode
	build = func(rv model.Review) model.ReviewNode {
		node := model.ReviewNode{
			ID:       rv.ID,
			Name:     rv.Name,
			Text:     rv.Text,
			Children: make([]model.ReviewNode, 0, len(children[rv.ID])),
		}
		for _, child := range children[rv.ID] {
			node.Children = append(node.Children, build(child))
		}
		return node
	}

	nodes := make([]model.ReviewNode, 0, len(roots))
	for _, rv := range roots {
		nodes = append(nodes, build(rv))
	}
	return nodes
}
