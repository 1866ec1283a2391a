package model

// RatingStar is one selectable star value.
type RatingStar struct {
	ID    int64 `json:"id"`
	Value int   `json:"value"`
}

// Rating is a row of the ratings table.
type Rating struct {
	ID      int64
	IP      string
	StarID  int64
	MovieID int64
}

// RatingCreateRequest is the API request body for rating a movie. The star is
// the star value, not its row id. Any ip sent by the client is not decoded.
type RatingCreateRequest struct {
	Star  *int  `json:"star" validate:"required"`
	Movie int64 `json:"movie" validate:"required,gt=0"`
}

// RatingResponse echoes a stored rating.
type RatingResponse struct {
	ID    int64  `json:"id"`
	Star  int    `json:"star"`
	Movie int64  `json:"movie"`
	IP    string `json:"ip"`
}

// StarCreateRequest is the admin request body for adding a star value.
type StarCreateRequest struct {
	Value int `json:"value" validate:"gte=-32768,lte=32767"`
}
