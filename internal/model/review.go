package model

// Review is a row of the reviews table. ParentID links threaded replies.
type Review struct {
	ID       int64
	Email    string
	Name     string
	Text     string
	ParentID *int64
	MovieID  int64
}

// ReviewCreateRequest is the API request body for posting a review.
type ReviewCreateRequest struct {
	Email  string `json:"email" validate:"required,email,max=254"`
	Name   string `json:"name" validate:"required,max=100"`
	Text   string `json:"text" validate:"required,max=5000"`
	Parent *int64 `json:"parent" validate:"omitempty,gt=0"`
	Movie  int64  `json:"movie" validate:"required,gt=0"`
}

// ReviewResponse echoes a stored review.
type ReviewResponse struct {
	ID     int64  `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Text   string `json:"text"`
	Parent *int64 `json:"parent"`
	Movie  int64  `json:"movie"`
}

// ReviewNode is a review with its replies, as shown on the movie page.
type ReviewNode struct {
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	Text     string       `json:"text"`
	Children []ReviewNode `json:"children"`
}
