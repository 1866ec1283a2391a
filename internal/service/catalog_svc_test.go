package service

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KeplerDE/kinos-go/internal/model"
	"github.com/KeplerDE/kinos-go/internal/repository"
)

func TestActors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.actors.Create(ctx, model.ActorCreateRequest{Name: "Amélie Poulain", Age: 23, Description: "Waitress", Image: "actors/amelie.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "amelie-poulain", a.URL)

	_, err = f.actors.Create(ctx, model.ActorCreateRequest{Name: "Jean Reno", Description: "Leon", Image: "actors/reno.jpg", URL: "reno"})
	require.NoError(t, err)

	list, err := f.actors.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "amelie-poulain", list[0].URL)
	assert.Equal(t, "/media/actors/amelie.jpg", list[0].Image)
	assert.Equal(t, "reno", list[1].URL)

	d, err := f.actors.Detail(ctx, "amelie-poulain")
	require.NoError(t, err)
	assert.Equal(t, 23, d.Age)
	assert.Equal(t, "Waitress", d.Description)

	_, err = f.actors.Detail(ctx, "nobody")
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	_, err = f.actors.Create(ctx, model.ActorCreateRequest{Name: "Jean Reno", Description: "Again", Image: "x.jpg", URL: "reno"})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestCatalog_ReferenceTables(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.catalog.CreateCategory(ctx, model.CategoryCreateRequest{Name: "Cartoons", Description: "For kids"})
	require.NoError(t, err)
	assert.Equal(t, "cartoons", c.URL)

	_, err = f.catalog.CreateCategory(ctx, model.CategoryCreateRequest{Name: "Cartoons", Description: "Dup"})
	assert.ErrorIs(t, err, repository.ErrConflict)

	_, err = f.catalog.CreateGenre(ctx, model.CategoryCreateRequest{Name: strings.Repeat("g", 101), Description: "Long"})
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "name", fe.Field)

	g, err := f.catalog.CreateGenre(ctx, model.CategoryCreateRequest{Name: "Film Noir", Description: "Dark", URL: "noir"})
	require.NoError(t, err)
	assert.Equal(t, "noir", g.URL)

	categories, err := f.catalog.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 1)

	genres, err := f.catalog.Genres(ctx)
	require.NoError(t, err)
	assert.Len(t, genres, 1)
}

func TestCatalog_CreateShot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.movie(t, "Heat", false)

	shot, err := f.catalog.CreateShot(ctx, m.ID, model.ShotCreateRequest{Title: "Bank", Description: "Shootout", Image: "shots/bank.jpg"})
	require.NoError(t, err)
	assert.NotZero(t, shot.ID)
	assert.Equal(t, "/media/shots/bank.jpg", shot.Image)

	draft := f.movie(t, "Draft", true)
	_, err = f.catalog.CreateShot(ctx, draft.ID, model.ShotCreateRequest{Title: "a", Description: "b", Image: "c.jpg"})
	assert.NoError(t, err)

	_, err = f.catalog.CreateShot(ctx, 9999, model.ShotCreateRequest{Title: "a", Description: "b", Image: "c.jpg"})
	assert.ErrorIs(t, err, repository.ErrReference)
}

func TestCatalog_Stats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m := f.movie(t, "Heat", false)
	f.movie(t, "Draft", true)
	f.review(t, m.ID, nil, "ann")
	f.rate(t, m.ID, 5, "10.0.0.1")

	st, err := f.catalog.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Movies)
	assert.Equal(t, 1, st.DraftMovies)
	assert.Equal(t, 1, st.Reviews)
	assert.Equal(t, 1, st.Ratings)
	assert.Zero(t, st.Actors)
}

func TestDeriveSlug(t *testing.T) {
	tests := []struct {
		name    string
		given   string
		source  string
		want    string
		wantErr bool
	}{
		{"given wins", "custom", "The Matrix", "custom", false},
		{"derived", "", "The Matrix", "the-matrix", false},
		{"transliterated", "", "Amélie Poulain", "amelie-poulain", false},
		{"nothing usable", "", "!!!", "", true},
		{"capped length", "", strings.Repeat("ab ", 100), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := deriveSlug(tt.given, tt.source)
			if tt.wantErr {
				var fe *FieldError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, "url", fe.Field)
				return
			}
			require.NoError(t, err)
			assert.LessOrEqual(t, len(got), maxSlugLen)
			assert.False(t, strings.HasSuffix(got, "-"))
			if tt.want != "" {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestMediaURL_Resolve(t *testing.T) {
	tests := []struct {
		media MediaURL
		path  string
		want  string
	}{
		{"/media/", "movies/a.jpg", "/media/movies/a.jpg"},
		{"/media", "/movies/a.jpg", "/media/movies/a.jpg"},
		{"https://cdn.example.com/m/", "a.jpg", "https://cdn.example.com/m/a.jpg"},
		{"/media/", "", ""},
		{"/media/", "https://img.example.com/a.jpg", "https://img.example.com/a.jpg"},
		{"", "movies/a.jpg", "movies/a.jpg"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.media.Resolve(tt.path), "media=%q path=%q", tt.media, tt.path)
	}
}
