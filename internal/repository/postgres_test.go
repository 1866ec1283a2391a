package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KeplerDE/kinos-go/internal/db"
	"github.com/KeplerDE/kinos-go/internal/model"
	"github.com/KeplerDE/kinos-go/internal/repository"
)

// These tests run the production SQL against a real PostgreSQL. They are
// skipped unless TEST_DATABASE_URL points at a database they may migrate and
// write to. Rows are named with a random suffix and removed afterwards.

type pgFixture struct {
	ctx     context.Context
	pool    *pgxpool.Pool
	suffix  string
	movies  *repository.MovieRepo
	actors  *repository.ActorRepo
	reviews *repository.ReviewRepo
	ratings *repository.RatingRepo
	catalog *repository.CatalogRepo
}

func newPGFixture(t *testing.T) *pgFixture {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	pool, err := db.NewPool(ctx, url, 4)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = db.Migrate(ctx, pool)
	require.NoError(t, err)

	return &pgFixture{
		ctx:     ctx,
		pool:    pool,
		suffix:  uuid.NewString()[:8],
		movies:  repository.NewMovieRepo(pool),
		actors:  repository.NewActorRepo(pool),
		reviews: repository.NewReviewRepo(pool),
		ratings: repository.NewRatingRepo(pool),
		catalog: repository.NewCatalogRepo(pool),
	}
}

func (f *pgFixture) cleanup(t *testing.T, table string, id int64) {
	t.Cleanup(func() {
		_, err := f.pool.Exec(context.Background(), "DELETE FROM "+table+" WHERE id = $1", id)
		assert.NoError(t, err)
	})
}

func (f *pgFixture) movie(t *testing.T, title string, draft bool, links model.MovieLinks) *model.Movie {
	t.Helper()
	m := &model.Movie{
		Title:         title,
		Description:   "About " + title,
		Poster:        "movies/" + f.suffix + ".jpg",
		Year:          1995,
		Country:       "USA",
		WorldPremiere: time.Date(1995, 12, 15, 0, 0, 0, 0, time.UTC),
		URL:           title + "-" + f.suffix,
		Draft:         draft,
	}
	require.NoError(t, f.movies.Create(f.ctx, m, links))
	f.cleanup(t, "movies", m.ID)
	return m
}

func (f *pgFixture) rate(t *testing.T, ip string, movieID int64, value int) *model.Rating {
	t.Helper()
	star, err := f.ratings.StarByValue(f.ctx, value)
	require.NoError(t, err)
	rt := &model.Rating{IP: ip, StarID: star.ID, MovieID: movieID}
	require.NoError(t, f.ratings.Upsert(f.ctx, rt))
	return rt
}

func findListed(items []model.MovieListItem, id int64) *model.MovieListItem {
	for i := range items {
		if items[i].ID == id {
			return &items[i]
		}
	}
	return nil
}

func TestPostgres_ListPublishedAggregatesRatings(t *testing.T) {
	f := newPGFixture(t)
	heat := f.movie(t, "heat", false, model.MovieLinks{})
	unrated := f.movie(t, "ronin", false, model.MovieLinks{})
	draft := f.movie(t, "draft", true, model.MovieLinks{})

	ipA := "198.51.100.1-" + f.suffix
	first := f.rate(t, ipA, heat.ID, 5)
	f.rate(t, "198.51.100.2-"+f.suffix, heat.ID, 4)
	f.rate(t, "198.51.100.3-"+f.suffix, heat.ID, 4)

	items, err := f.movies.ListPublished(f.ctx, ipA)
	require.NoError(t, err)
	assert.Nil(t, findListed(items, draft.ID))

	got := findListed(items, heat.ID)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.RatingUser)
	require.NotNil(t, got.MiddleStar)
	assert.Equal(t, 4.33, *got.MiddleStar)

	none := findListed(items, unrated.ID)
	require.NotNil(t, none)
	assert.Zero(t, none.RatingUser)
	assert.Nil(t, none.MiddleStar)

	again := f.rate(t, ipA, heat.ID, 1)
	assert.Equal(t, first.ID, again.ID)

	items, err = f.movies.ListPublished(f.ctx, "203.0.113.250-"+f.suffix)
	require.NoError(t, err)
	got = findListed(items, heat.ID)
	require.NotNil(t, got)
	assert.Zero(t, got.RatingUser)
	require.NotNil(t, got.MiddleStar)
	assert.Equal(t, 3.0, *got.MiddleStar)
}

func TestPostgres_FindPublishedBySlugLoadsRelations(t *testing.T) {
	f := newPGFixture(t)

	cat := &model.Category{Name: "Feature " + f.suffix, Description: "d", URL: "feature-" + f.suffix}
	require.NoError(t, f.catalog.CreateCategory(f.ctx, cat))
	f.cleanup(t, "categories", cat.ID)
	genre := &model.Genre{Name: "Crime " + f.suffix, Description: "d", URL: "crime-" + f.suffix}
	require.NoError(t, f.catalog.CreateGenre(f.ctx, genre))
	f.cleanup(t, "genres", genre.ID)
	actor := &model.Actor{Name: "Jean Reno", Age: 70, Description: "d", Image: "a.jpg", URL: "jean-reno-" + f.suffix}
	require.NoError(t, f.actors.Create(f.ctx, actor))
	f.cleanup(t, "actors", actor.ID)
	director := &model.Actor{Name: "John Frankenheimer", Description: "d", Image: "d.jpg", URL: "frankenheimer-" + f.suffix}
	require.NoError(t, f.actors.Create(f.ctx, director))
	f.cleanup(t, "actors", director.ID)

	m := &model.Movie{
		Title: "Ronin", Description: "d", Poster: "p.jpg", Year: 1998, Country: "USA",
		WorldPremiere: time.Date(1998, 9, 25, 0, 0, 0, 0, time.UTC),
		CategoryID:    &cat.ID, URL: "ronin-" + f.suffix,
	}
	require.NoError(t, f.movies.Create(f.ctx, m, model.MovieLinks{
		Actors:    []int64{actor.ID, actor.ID},
		Directors: []int64{director.ID},
		Genres:    []int64{genre.ID},
	}))
	f.cleanup(t, "movies", m.ID)
	shot := &model.MovieShot{Title: "Car chase", Description: "d", Image: "s.jpg", MovieID: m.ID}
	require.NoError(t, f.catalog.CreateShot(f.ctx, shot))

	rec, err := f.movies.FindPublishedBySlug(f.ctx, m.URL)
	require.NoError(t, err)
	assert.Equal(t, m.ID, rec.ID)
	require.NotNil(t, rec.CategoryName)
	assert.Equal(t, cat.Name, *rec.CategoryName)
	require.Len(t, rec.Actors, 1)
	assert.Equal(t, actor.URL, rec.Actors[0].URL)
	require.Len(t, rec.Directors, 1)
	assert.Equal(t, director.ID, rec.Directors[0].ID)
	require.Len(t, rec.Genres, 1)
	assert.Equal(t, genre.Name, rec.Genres[0].Name)
	require.Len(t, rec.Shots, 1)
	assert.Equal(t, shot.ID, rec.Shots[0].ID)

	draft := f.movie(t, "hidden", true, model.MovieLinks{})
	_, err = f.movies.FindPublishedBySlug(f.ctx, draft.URL)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestPostgres_CreateClassifiesConstraints(t *testing.T) {
	f := newPGFixture(t)
	heat := f.movie(t, "heat", false, model.MovieLinks{})

	dup := *heat
	dup.ID = 0
	err := f.movies.Create(f.ctx, &dup, model.MovieLinks{})
	assert.ErrorIs(t, err, repository.ErrConflict)

	orphan := &model.Movie{
		Title: "Orphan", Description: "d", Poster: "p.jpg", Country: "USA",
		WorldPremiere: time.Now().UTC(), URL: "orphan-" + f.suffix,
	}
	err = f.movies.Create(f.ctx, orphan, model.MovieLinks{Genres: []int64{-1}})
	assert.ErrorIs(t, err, repository.ErrReference)

	_, err = f.movies.PublishedSlugByID(f.ctx, orphan.ID)
	assert.ErrorIs(t, err, pgx.ErrNoRows, "failed create must roll back the movie row")
}

func TestPostgres_DeletesKeepRepliesAndCascade(t *testing.T) {
	f := newPGFixture(t)
	heat := f.movie(t, "heat", false, model.MovieLinks{})

	parent := &model.Review{Email: "ann@example.com", Name: "ann", Text: "Great", MovieID: heat.ID}
	require.NoError(t, f.reviews.Create(f.ctx, parent))
	reply := &model.Review{Email: "bob@example.com", Name: "bob", Text: "Agreed", ParentID: &parent.ID, MovieID: heat.ID}
	require.NoError(t, f.reviews.Create(f.ctx, reply))
	f.rate(t, "198.51.100.9-"+f.suffix, heat.ID, 5)

	slug, err := f.reviews.Delete(f.ctx, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, heat.URL, slug)

	kept, err := f.reviews.FindByID(f.ctx, reply.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.ParentID)

	slug, err = f.movies.Delete(f.ctx, heat.ID)
	require.NoError(t, err)
	assert.Equal(t, heat.URL, slug)

	reviews, err := f.reviews.ListByMovie(f.ctx, heat.ID)
	require.NoError(t, err)
	assert.Empty(t, reviews)

	var ratings int
	require.NoError(t, f.pool.QueryRow(f.ctx, `SELECT COUNT(*) FROM ratings WHERE movie_id = $1`, heat.ID).Scan(&ratings))
	assert.Zero(t, ratings)

	_, err = f.movies.Delete(f.ctx, heat.ID)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}
