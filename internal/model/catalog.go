package model

// Category groups movies (feature film, series, cartoon, ...).
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Genre is attached to movies many-to-many.
type Genre struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// MovieShot is a still frame from a movie.
type MovieShot struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	MovieID     int64  `json:"-"`
}

// CategoryCreateRequest is used for both categories (max 150) and genres (max 100);
// the service enforces the genre name limit.
type CategoryCreateRequest struct {
	Name        string `json:"name" validate:"required,max=150"`
	Description string `json:"description" validate:"required"`
	URL         string `json:"url" validate:"omitempty,max=160,slug"`
}

// ShotCreateRequest is the admin request body for adding a still to a movie.
type ShotCreateRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"required"`
	Image       string `json:"image" validate:"required,max=255"`
}

// StatsResponse is the API response for catalog statistics.
type StatsResponse struct {
	Movies      int `json:"movies"`
	DraftMovies int `json:"draftMovies"`
	Actors      int `json:"actors"`
	Genres      int `json:"genres"`
	Categories  int `json:"categories"`
	Reviews     int `json:"reviews"`
	Ratings     int `json:"ratings"`
}
