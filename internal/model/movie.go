package model

import "time"

// Movie is a row of the movies table.
type Movie struct {
	ID            int64
	Title         string
	Tagline       string
	Description   string
	Poster        string
	Year          int
	Country       string
	WorldPremiere time.Time
	Budget        int64
	FeesInUSA     int64
	FeesInWorld   int64
	CategoryID    *int64
	URL           string
	Draft         bool
}

// MovieRecord is a published movie joined with everything its detail page shows.
type MovieRecord struct {
	Movie
	CategoryName *string
	Actors       []ActorSummary
	Directors    []ActorSummary
	Genres       []Genre
	Shots        []MovieShot
}

// MovieListItem is one row of the public movie list, annotated per client.
type MovieListItem struct {
	ID         int64    `json:"id"`
	Title      string   `json:"title"`
	Tagline    string   `json:"tagline"`
	Poster     string   `json:"poster"`
	Year       int      `json:"year"`
	RatingUser int      `json:"rating_user"`
	MiddleStar *float64 `json:"middle_star"`
}

// MovieDetail is the API response for a single movie.
type MovieDetail struct {
	ID            int64          `json:"id"`
	Title         string         `json:"title"`
	Tagline       string         `json:"tagline"`
	Description   string         `json:"description"`
	Poster        string         `json:"poster"`
	Year          int            `json:"year"`
	Country       string         `json:"country"`
	WorldPremiere string         `json:"world_premiere"`
	Budget        int64          `json:"budget"`
	FeesInUSA     int64          `json:"fees_in_usa"`
	FeesInWorld   int64          `json:"fees_in_world"`
	Category      *string        `json:"category"`
	URL           string         `json:"url"`
	Actors        []ActorSummary `json:"actors"`
	Directors     []ActorSummary `json:"directors"`
	Genres        []string       `json:"genres"`
	Shots         []MovieShot    `json:"shots"`
	Reviews       []ReviewNode   `json:"reviews"`
}

// MovieCreateRequest is the admin request body for adding a movie.
type MovieCreateRequest struct {
	Title         string  `json:"title" validate:"required,max=100"`
	Tagline       string  `json:"tagline" validate:"max=100"`
	Description   string  `json:"description" validate:"required"`
	Poster        string  `json:"poster" validate:"required,max=255"`
	Year          int     `json:"year" validate:"gte=0,lte=32767"`
	Country       string  `json:"country" validate:"required,max=30"`
	WorldPremiere string  `json:"world_premiere" validate:"omitempty,datetime=2006-01-02"`
	Budget        int64   `json:"budget" validate:"gte=0,lte=2147483647"`
	FeesInUSA     int64   `json:"fees_in_usa" validate:"gte=0,lte=2147483647"`
	FeesInWorld   int64   `json:"fees_in_world" validate:"gte=0,lte=2147483647"`
	Category      *int64  `json:"category" validate:"omitempty,gt=0"`
	Actors        []int64 `json:"actors" validate:"dive,gt=0"`
	Directors     []int64 `json:"directors" validate:"dive,gt=0"`
	Genres        []int64 `json:"genres" validate:"dive,gt=0"`
	URL           string  `json:"url" validate:"omitempty,max=160,slug"`
	Draft         bool    `json:"draft"`
}

// MovieLinks are the many-to-many rows written alongside a new movie.
type MovieLinks struct {
	Actors    []int64
	Directors []int64
	Genres    []int64
}

// MovieCreated is the admin response after adding a movie.
type MovieCreated struct {
	ID    int64  `json:"id"`
	URL   string `json:"url"`
	Draft bool   `json:"draft"`
}
