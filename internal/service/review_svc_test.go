package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KeplerDE/kinos-go/internal/model"
)

func ptr[T any](v T) *T { return &v }

func TestReviewCreate(t *testing.T) {
	f := newFixture(t)
	m := f.movie(t, "Heat", false)

	rv := f.review(t, m.ID, nil, "ann")
	assert.NotZero(t, rv.ID)
	assert.Equal(t, "ann@example.com", rv.Email)
	assert.Nil(t, rv.Parent)
	assert.Equal(t, m.ID, rv.Movie)

	reply := f.review(t, m.ID, &rv.ID, "bob")
	require.NotNil(t, reply.Parent)
	assert.Equal(t, rv.ID, *reply.Parent)
}

func TestReviewCreate_Rejections(t *testing.T) {
	f := newFixture(t)
	heat := f.movie(t, "Heat", false)
	ronin := f.movie(t, "Ronin", false)
	draft := f.movie(t, "Draft", true)
	onRonin := f.review(t, ronin.ID, nil, "ann")

	tests := []struct {
		name      string
		movie     int64
		parent    *int64
		wantField string
	}{
		{"unknown movie", 9999, nil, "movie"},
		{"draft movie", draft.ID, nil, "movie"},
		{"unknown parent", heat.ID, ptr(int64(9999)), "parent"},
		{"parent on other movie", heat.ID, &onRonin.ID, "parent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.reviews.Create(context.Background(), model.ReviewCreateRequest{
				Email: "x@example.com", Name: "x", Text: "x", Movie: tt.movie, Parent: tt.parent,
			})
			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.wantField, fe.Field)
		})
	}
}

func TestReviewDelete_RepliesSurvive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.movie(t, "Heat", false)

	parent := f.review(t, m.ID, nil, "ann")
	child := f.review(t, m.ID, &parent.ID, "bob")

	require.NoError(t, f.reviews.Delete(ctx, parent.ID))

	stored, ok := f.store.Review(child.ID)
	require.True(t, ok)
	assert.Nil(t, stored.ParentID)

	d, err := f.movies.Detail(ctx, m.URL)
	require.NoError(t, err)
	require.Len(t, d.Reviews, 1)
	assert.Equal(t, child.ID, d.Reviews[0].ID)

	assert.ErrorIs(t, f.reviews.Delete(ctx, parent.ID), pgx.ErrNoRows)
}

func TestBuildReviewTree(t *testing.T) {
	reviews := []model.Review{
		{ID: 1, Name: "a"},
		{ID: 2, Name: "b", ParentID: ptr(int64(1))},
		{ID: 3, Name: "c"},
		{ID: 4, Name: "d", ParentID: ptr(int64(2))},
		{ID: 5, Name: "e", ParentID: ptr(int64(1))},
	}

	tree := BuildReviewTree(reviews)

	require.Len(t, tree, 2)
	assert.Equal(t, int64(1), tree[0].ID)
	assert.Equal(t, int64(3), tree[1].ID)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, int64(2), tree[0].Children[0].ID)
	assert.Equal(t, int64(5), tree[0].Children[1].ID)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, int64(4), tree[0].Children[0].Children[0].ID)
	assert.NotNil(t, tree[1].Children)
	assert.Empty(t, tree[1].Children)
}

func TestBuildReviewTree_Empty(t *testing.T) {
	tree := BuildReviewTree(nil)
	assert.NotNil(t, tree)
	assert.Empty(t, tree)
}
