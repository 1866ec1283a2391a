package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/KeplerDE/kinos-go/internal/model"
	"github.com/KeplerDE/kinos-go/internal/service/servicetest"
)

type fixture struct {
	store   *servicetest.Store
	movies  *MovieService
	actors  *ActorService
	reviews *ReviewService
	ratings *RatingService
	catalog *CatalogService
}

var fixedNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := servicetest.New()
	media := MediaURL("/media/")

	f := &fixture{
		store:   st,
		movies:  NewMovieService(st.Movies(), st.Reviews(), nil, media),
		actors:  NewActorService(st.Actors(), nil, media),
		reviews: NewReviewService(st.Reviews(), st.Movies(), nil),
		ratings: NewRatingService(st.Ratings(), st.Movies()),
		catalog: NewCatalogService(st.Catalog(), st.Movies(), nil, media),
	}
	f.movies.now = func() time.Time { return fixedNow }
	return f
}

func (f *fixture) movie(t *testing.T, title string, draft bool) *model.MovieCreated {
	t.Helper()
	m, err := f.movies.Create(context.Background(), model.MovieCreateRequest{
		Title:       title,
		Description: "About " + title,
		Poster:      "movies/" + title + ".jpg",
		Country:     "USA",
		Draft:       draft,
	})
	require.NoError(t, err)
	return m
}

func (f *fixture) rate(t *testing.T, movieID int64, star int, ip string) *model.RatingResponse {
	t.Helper()
	r, err := f.ratings.Rate(context.Background(), model.RatingCreateRequest{Star: &star, Movie: movieID}, ip)
	require.NoError(t, err)
	return r
}

func (f *fixture) review(t *testing.T, movieID int64, parent *int64, name string) *model.ReviewResponse {
	t.Helper()
	rv, err := f.reviews.Create(context.Background(), model.ReviewCreateRequest{
		Email:  name + "@example.com",
		Name:   name,
		Text:   name + " says hi",
		Parent: parent,
		Movie:  movieID,
	})
	require.NoError(t, err)
	return rv
}
