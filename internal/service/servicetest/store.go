// Package servicetest provides an in-memory catalog store for tests. It keeps
// the integrity rules of the SQL schema: unique urls, foreign keys, cascades
// on movie delete and SET NULL on review parents.
package servicetest

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/KeplerDE/kinos-go/internal/model"
	"github.com/KeplerDE/kinos-go/internal/repository"
)

type movieRow struct {
	movie model.Movie
	links model.MovieLinks
}

// Store holds every table. Use the typed views (Movies, Actors, ...) to get
// values satisfying the service store interfaces.
type Store struct {
	mu     sync.Mutex
	nextID int64

	categories map[int64]model.Category
	genres     map[int64]model.Genre
	actors     map[int64]model.Actor
	movies     map[int64]*movieRow
	shots      map[int64]model.MovieShot
	stars      map[int64]model.RatingStar
	ratings    map[int64]model.Rating
	reviews    map[int64]model.Review

	// Err, when set, is returned by every operation.
	Err error
}

// New returns an empty store seeded with star values 1 through 5.
func New() *Store {
	s := &Store{
		categories: map[int64]model.Category{},
		genres:     map[int64]model.Genre{},
		actors:     map[int64]model.Actor{},
		movies:     map[int64]*movieRow{},
		shots:      map[int64]model.MovieShot{},
		stars:      map[int64]model.RatingStar{},
		ratings:    map[int64]model.Rating{},
		reviews:    map[int64]model.Review{},
	}
	for v := 1; v <= 5; v++ {
		id := s.id()
		s.stars[id] = model.RatingStar{ID: id, Value: v}
	}
	return s
}

func (s *Store) Movies() *Movies   { return &Movies{s} }
func (s *Store) Actors() *Actors   { return &Actors{s} }
func (s *Store) Reviews() *Reviews { return &Reviews{s} }
func (s *Store) Ratings() *Ratings { return &Ratings{s} }
func (s *Store) Catalog() *Catalog { return &Catalog{s} }

// RatingCount reports how many ratings are stored for a movie.
func (s *Store) RatingCount(movieID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.ratings {
		if r.MovieID == movieID {
			n++
		}
	}
	return n
}

// Review returns a stored review by id.
func (s *Store) Review(id int64) (model.Review, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rv, ok := s.reviews[id]
	return rv, ok
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func conflict(constraint string) error {
	return &repository.ConstraintError{Kind: repository.ErrConflict, Constraint: constraint}
}

func reference(constraint string) error {
	return &repository.ConstraintError{Kind: repository.ErrReference, Constraint: constraint}
}

func sortedIDs[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Movies implements service.MovieStore.
type Movies struct{ s *Store }

func (m *Movies) ListPublished(_ context.Context, clientIP string) ([]model.MovieListItem, error) {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	items := []model.MovieListItem{}
	for _, id := range sortedIDs(s.movies) {
		row := s.movies[id]
		if row.movie.Draft {
			continue
		}
		item := model.MovieListItem{
			ID:      id,
			Title:   row.movie.Title,
			Tagline: row.movie.Tagline,
			Poster:  row.movie.Poster,
			Year:    row.movie.Year,
		}
		sum, n := 0, 0
		for _, r := range s.ratings {
			if r.MovieID != id {
				continue
			}
			if r.IP == clientIP {
				item.RatingUser++
			}
			sum += s.stars[r.StarID].Value
			n++
		}
		if n > 0 {
			avg := math.Round(float64(sum)/float64(n)*100) / 100
			item.MiddleStar = &avg
		}
		items = append(items, item)
	}
	return items, nil
}

func (m *Movies) FindPublishedBySlug(_ context.Context, slug string) (*model.MovieRecord, error) {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	for _, id := range sortedIDs(s.movies) {
		row := s.movies[id]
		if row.movie.URL != slug || row.movie.Draft {
			continue
		}
		rec := &model.MovieRecord{Movie: row.movie}
		if row.movie.CategoryID != nil {
			if c, ok := s.categories[*row.movie.CategoryID]; ok {
				name := c.Name
				rec.CategoryName = &name
			}
		}
		rec.Actors = s.summaries(row.links.Actors)
		rec.Directors = s.summaries(row.links.Directors)
		for _, gid := range sortedUnique(row.links.Genres) {
			if g, ok := s.genres[gid]; ok {
				rec.Genres = append(rec.Genres, g)
			}
		}
		for _, sid := range sortedIDs(s.shots) {
			if sh := s.shots[sid]; sh.MovieID == id {
				rec.Shots = append(rec.Shots, sh)
			}
		}
		return rec, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *Store) summaries(ids []int64) []model.ActorSummary {
	var out []model.ActorSummary
	for _, id := range sortedUnique(ids) {
		if a, ok := s.actors[id]; ok {
			out = append(out, model.ActorSummary{ID: a.ID, Name: a.Name, Image: a.Image, URL: a.URL})
		}
	}
	return out
}

func sortedUnique(ids []int64) []int64 {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return sortedIDs(set)
}

func (m *Movies) PublishedSlugByID(_ context.Context, id int64) (string, error) {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	row, ok := s.movies[id]
	if !ok || row.movie.Draft {
		return "", pgx.ErrNoRows
	}
	return row.movie.URL, nil
}

func (m *Movies) Create(_ context.Context, mv *model.Movie, links model.MovieLinks) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	for _, row := range s.movies {
		if row.movie.URL == mv.URL {
			return conflict("movies_url_key")
		}
	}
	if mv.CategoryID != nil {
		if _, ok := s.categories[*mv.CategoryID]; !ok {
			return reference("movies_category_id_fkey")
		}
	}
	for _, id := range append(append([]int64{}, links.Actors...), links.Directors...) {
		if _, ok := s.actors[id]; !ok {
			return reference("movie_actors_actor_id_fkey")
		}
	}
	for _, id := range links.Genres {
		if _, ok := s.genres[id]; !ok {
			return reference("movie_genres_genre_id_fkey")
		}
	}

	mv.ID = s.id()
	s.movies[mv.ID] = &movieRow{movie: *mv, links: links}
	return nil
}

func (m *Movies) Delete(_ context.Context, id int64) (string, error) {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	row, ok := s.movies[id]
	if !ok {
		return "", pgx.ErrNoRows
	}
	delete(s.movies, id)
	for sid, sh := range s.shots {
		if sh.MovieID == id {
			delete(s.shots, sid)
		}
	}
	for rid, r := range s.ratings {
		if r.MovieID == id {
			delete(s.ratings, rid)
		}
	}
	for rid, rv := range s.reviews {
		if rv.MovieID == id {
			delete(s.reviews, rid)
		}
	}
	return row.movie.URL, nil
}

// Actors implements service.ActorStore.
type Actors struct{ s *Store }

func (a *Actors) List(_ context.Context) ([]model.Actor, error) {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []model.Actor{}
	for _, id := range sortedIDs(s.actors) {
		out = append(out, s.actors[id])
	}
	return out, nil
}

func (a *Actors) FindBySlug(_ context.Context, slug string) (*model.Actor, error) {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, act := range s.actors {
		if act.URL == slug {
			return &act, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (a *Actors) Create(_ context.Context, act *model.Actor) error {
	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, existing := range s.actors {
		if existing.URL == act.URL {
			return conflict("actors_url_key")
		}
	}
	act.ID = s.id()
	s.actors[act.ID] = *act
	return nil
}

// Reviews implements service.ReviewStore.
type Reviews struct{ s *Store }

func (r *Reviews) FindByID(_ context.Context, id int64) (*model.Review, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	rv, ok := s.reviews[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &rv, nil
}

func (r *Reviews) ListByMovie(_ context.Context, movieID int64) ([]model.Review, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Review
	for _, id := range sortedIDs(s.reviews) {
		if rv := s.reviews[id]; rv.MovieID == movieID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r *Reviews) Create(_ context.Context, rv *model.Review) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.movies[rv.MovieID]; !ok {
		return reference("reviews_movie_id_fkey")
	}
	if rv.ParentID != nil {
		if _, ok := s.reviews[*rv.ParentID]; !ok {
			return reference("reviews_parent_id_fkey")
		}
	}
	rv.ID = s.id()
	s.reviews[rv.ID] = *rv
	return nil
}

func (r *Reviews) Delete(_ context.Context, id int64) (string, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	rv, ok := s.reviews[id]
	if !ok {
		return "", pgx.ErrNoRows
	}
	delete(s.reviews, id)
	for cid, child := range s.reviews {
		if child.ParentID != nil && *child.ParentID == id {
			child.ParentID = nil
			s.reviews[cid] = child
		}
	}
	row, ok := s.movies[rv.MovieID]
	if !ok {
		return "", pgx.ErrNoRows
	}
	return row.movie.URL, nil
}

// Ratings implements service.RatingStore.
type Ratings struct{ s *Store }

func (r *Ratings) StarByValue(_ context.Context, value int) (*model.RatingStar, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, st := range s.stars {
		if st.Value == value {
			return &st, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *Ratings) ListStars(_ context.Context) ([]model.RatingStar, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]model.RatingStar, 0, len(s.stars))
	for _, st := range s.stars {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out, nil
}

func (r *Ratings) CreateStar(_ context.Context, st *model.RatingStar) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, existing := range s.stars {
		if existing.Value == st.Value {
			return conflict("rating_stars_value_key")
		}
	}
	st.ID = s.id()
	s.stars[st.ID] = *st
	return nil
}

func (r *Ratings) Upsert(_ context.Context, rt *model.Rating) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.movies[rt.MovieID]; !ok {
		return reference("ratings_movie_id_fkey")
	}
	if _, ok := s.stars[rt.StarID]; !ok {
		return reference("ratings_star_id_fkey")
	}
	for id, existing := range s.ratings {
		if existing.IP == rt.IP && existing.MovieID == rt.MovieID {
			existing.StarID = rt.StarID
			s.ratings[id] = existing
			rt.ID = id
			return nil
		}
	}
	rt.ID = s.id()
	s.ratings[rt.ID] = *rt
	return nil
}

// Catalog implements service.CatalogStore.
type Catalog struct{ s *Store }

func (c *Catalog) ListCategories(_ context.Context) ([]model.Category, error) {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []model.Category{}
	for _, id := range sortedIDs(s.categories) {
		out = append(out, s.categories[id])
	}
	return out, nil
}

func (c *Catalog) CreateCategory(_ context.Context, cat *model.Category) error {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, existing := range s.categories {
		if existing.URL == cat.URL {
			return conflict("categories_url_key")
		}
	}
	cat.ID = s.id()
	s.categories[cat.ID] = *cat
	return nil
}

func (c *Catalog) ListGenres(_ context.Context) ([]model.Genre, error) {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []model.Genre{}
	for _, id := range sortedIDs(s.genres) {
		out = append(out, s.genres[id])
	}
	return out, nil
}

func (c *Catalog) CreateGenre(_ context.Context, g *model.Genre) error {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, existing := range s.genres {
		if existing.URL == g.URL {
			return conflict("genres_url_key")
		}
	}
	g.ID = s.id()
	s.genres[g.ID] = *g
	return nil
}

func (c *Catalog) CreateShot(_ context.Context, sh *model.MovieShot) error {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.movies[sh.MovieID]; !ok {
		return reference("movie_shots_movie_id_fkey")
	}
	sh.ID = s.id()
	s.shots[sh.ID] = *sh
	return nil
}

func (c *Catalog) Stats(_ context.Context) (*model.StatsResponse, error) {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	st := &model.StatsResponse{
		Actors:     len(s.actors),
		Genres:     len(s.genres),
		Categories: len(s.categories),
		Reviews:    len(s.reviews),
		Ratings:    len(s.ratings),
	}
	for _, row := range s.movies {
		if row.movie.Draft {
			st.DraftMovies++
		} else {
			st.Movies++
		}
	}
	return st, nil
}
