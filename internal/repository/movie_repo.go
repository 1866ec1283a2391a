package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KeplerDE/kinos-go/internal/model"
)

type MovieRepo struct {
	pool *pgxpool.Pool
}

func NewMovieRepo(pool *pgxpool.Pool) *MovieRepo {
	return &MovieRepo{pool: pool}
}

// ListPublished returns every non-draft movie with the number of ratings the
// given client IP left on it and the average star value (NULL when unrated).
func (r *MovieRepo) ListPublished(ctx context.Context, clientIP string) ([]model.MovieListItem, error) {
	query := `
		SELECT m.id, m.title, m.tagline, m.poster, m.year,
		       COUNT(r.id) FILTER (WHERE r.ip = $1) AS rating_user,
		       ROUND(AVG(s.value)::numeric, 2)::float8 AS middle_star
		FROM movies m
		LEFT JOIN ratings r ON r.movie_id = m.id
		LEFT JOIN rating_stars s ON s.id = r.star_id
		WHERE m.draft = false
		GROUP BY m.id
		ORDER BY m.id`

	rows, err := r.pool.Query(ctx, query, clientIP)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := []model.MovieListItem{}
	for rows.Next() {
		var m model.MovieListItem
		if err := rows.Scan(&m.ID, &m.Title, &m.Tagline, &m.Poster, &m.Year, &m.RatingUser, &m.MiddleStar); err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// FindPublishedBySlug loads a non-draft movie with its category, credits,
// genres and shots in a single round trip. Returns pgx.ErrNoRows when the
// slug is unknown or the movie is a draft.
func (r *MovieRepo) FindPublishedBySlug(ctx context.Context, slug string) (*model.MovieRecord, error) {
	batch := &pgx.Batch{}
	batch.Queue(`
		SELECT m.id, m.title, m.tagline, m.description, m.poster, m.year, m.country,
		       m.world_premiere, m.budget, m.fees_in_usa, m.fees_in_world,
		       m.category_id, c.name, m.url, m.draft
		FROM movies m
		LEFT JOIN categories c ON c.id = m.category_id
		WHERE m.url = $1 AND m.draft = false`, slug)
	batch.Queue(creditsQuery("movie_actors"), slug)
	batch.Queue(creditsQuery("movie_directors"), slug)
	batch.Queue(`
		SELECT g.id, g.name, g.description, g.url
		FROM movie_genres mg
		JOIN genres g ON g.id = mg.genre_id
		JOIN movies m ON m.id = mg.movie_id
		WHERE m.url = $1
		ORDER BY g.id`, slug)
	batch.Queue(`
		SELECT s.id, s.title, s.description, s.image, s.movie_id
		FROM movie_shots s
		JOIN movies m ON m.id = s.movie_id
		WHERE m.url = $1
		ORDER BY s.id`, slug)

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	var rec model.MovieRecord
	err := br.QueryRow().Scan(
		&rec.ID, &rec.Title, &rec.Tagline, &rec.Description, &rec.Poster, &rec.Year, &rec.Country,
		&rec.WorldPremiere, &rec.Budget, &rec.FeesInUSA, &rec.FeesInWorld,
		&rec.CategoryID, &rec.CategoryName, &rec.URL, &rec.Draft,
	)
	if err != nil {
		return nil, err
	}

	if rec.Actors, err = collectCredits(br); err != nil {
		return nil, fmt.Errorf("load actors: %w", err)
	}
	if rec.Directors, err = collectCredits(br); err != nil {
		return nil, fmt.Errorf("load directors: %w", err)
	}

	rows, err := br.Query()
	if err != nil {
		return nil, fmt.Errorf("load genres: %w", err)
	}
	if rec.Genres, err = pgx.CollectRows(rows, pgx.RowToStructByPos[model.Genre]); err != nil {
		return nil, fmt.Errorf("load genres: %w", err)
	}

	rows, err = br.Query()
	if err != nil {
		return nil, fmt.Errorf("load shots: %w", err)
	}
	if rec.Shots, err = pgx.CollectRows(rows, pgx.RowToStructByPos[model.MovieShot]); err != nil {
		return nil, fmt.Errorf("load shots: %w", err)
	}

	return &rec, nil
}

func creditsQuery(table string) string {
	return `
		SELECT a.id, a.name, a.image, a.url
		FROM ` + table + ` ma
		JOIN actors a ON a.id = ma.actor_id
		JOIN movies m ON m.id = ma.movie_id
		WHERE m.url = $1
		ORDER BY a.id`
}

func collectCredits(br pgx.BatchResults) ([]model.ActorSummary, error) {
	rows, err := br.Query()
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[model.ActorSummary])
}

// PublishedSlugByID returns the slug of a non-draft movie, or pgx.ErrNoRows.
func (r *MovieRepo) PublishedSlugByID(ctx context.Context, id int64) (string, error) {
	var slug string
	err := r.pool.QueryRow(ctx, `SELECT url FROM movies WHERE id = $1 AND draft = false`, id).Scan(&slug)
	return slug, err
}

// Create inserts a movie and its actor, director and genre links atomically.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie, links model.MovieLinks) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO movies (title, tagline, description, poster, year, country, world_premiere,
		                    budget, fees_in_usa, fees_in_world, category_id, url, draft)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`,
		m.Title, m.Tagline, m.Description, m.Poster, m.Year, m.Country, m.WorldPremiere,
		m.Budget, m.FeesInUSA, m.FeesInWorld, m.CategoryID, m.URL, m.Draft,
	).Scan(&m.ID)
	if err != nil {
		return classify(err)
	}

	joins := []struct {
		table  string
		column string
		ids    []int64
	}{
		{"movie_actors", "actor_id", links.Actors},
		{"movie_directors", "actor_id", links.Directors},
		{"movie_genres", "genre_id", links.Genres},
	}
	for _, j := range joins {
		ids := dedupe(j.ids)
		if len(ids) == 0 {
			continue
		}
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{j.table},
			[]string{"movie_id", j.column},
			pgx.CopyFromSlice(len(ids), func(i int) ([]any, error) {
				return []any{m.ID, ids[i]}, nil
			}),
		)
		if err != nil {
			return classify(err)
		}
	}

	return tx.Commit(ctx)
}

// Delete removes a movie; shots, ratings, reviews and link rows cascade.
// Returns the deleted movie's slug, or pgx.ErrNoRows.
func (r *MovieRepo) Delete(ctx context.Context, id int64) (string, error) {
	var slug string
	err := r.pool.QueryRow(ctx, `DELETE FROM movies WHERE id = $1 RETURNING url`, id).Scan(&slug)
	return slug, err
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
