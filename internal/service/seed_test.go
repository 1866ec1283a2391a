package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KeplerDE/kinos-go/internal/model"
)

const seedJSON = `{
	"stars": [1, 2, 3, 4, 5, 6],
	"categories": [{"name": "Feature film", "description": "Long"}],
	"genres": [{"name": "Drama", "description": "Tears"}],
	"actors": [
		{"name": "Al Pacino", "description": "Actor", "image": "actors/pacino.jpg"},
		{"name": "Michael Mann", "description": "Director", "image": "actors/mann.jpg"}
	],
	"movies": [{
		"title": "Heat",
		"description": "LA crime saga",
		"poster": "movies/heat.jpg",
		"year": 1995,
		"country": "USA",
		"world_premiere": "1995-12-15",
		"category": "feature-film",
		"actors": ["al-pacino"],
		"directors": ["michael-mann"],
		"genres": ["drama"]
	}]
}`

func newSeeder(f *fixture) *Seeder {
	return &Seeder{Movies: f.movies, Actors: f.actors, Catalog: f.catalog, Ratings: f.ratings}
}

func TestSeeder_Run(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var file SeedFile
	require.NoError(t, json.Unmarshal([]byte(seedJSON), &file))

	report, err := newSeeder(f).Run(ctx, &file)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created["stars"])
	assert.Equal(t, 5, report.Skipped["stars"])
	assert.Equal(t, 1, report.Created["movies"])

	d, err := f.movies.Detail(ctx, "heat")
	require.NoError(t, err)
	require.NotNil(t, d.Category)
	assert.Equal(t, "Feature film", *d.Category)
	assert.Equal(t, []string{"Drama"}, d.Genres)
	require.Len(t, d.Directors, 1)
	assert.Equal(t, "michael-mann", d.Directors[0].URL)

	again, err := newSeeder(f).Run(ctx, &file)
	require.NoError(t, err)
	assert.Empty(t, again.Created)
	assert.Equal(t, 1, again.Skipped["movies"])
}

func TestSeeder_UnknownReference(t *testing.T) {
	f := newFixture(t)
	file := &SeedFile{Movies: []SeedMovie{{Category: "missing"}}}
	file.Movies[0].Title = "Orphan"

	_, err := newSeeder(f).Run(context.Background(), file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown category "missing"`)
}

func TestSeeder_Validate(t *testing.T) {
	f := newFixture(t)
	s := newSeeder(f)
	s.Validate = func(any) map[string]string {
		return map[string]string{"name": "This field is required."}
	}

	file := &SeedFile{Categories: []model.CategoryCreateRequest{{Description: "x"}}}

	_, err := s.Run(context.Background(), file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name: This field is required.")
}
