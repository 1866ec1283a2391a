package model

// Actor is a row of the actors table. Directors are actors too.
type Actor struct {
	ID          int64
	Name        string
	Age         int
	Description string
	Image       string
	URL         string
}

// ActorSummary is the short form used in lists and movie credits.
type ActorSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
	URL   string `json:"url"`
}

// ActorDetail is the API response for a single actor.
type ActorDetail struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Age         int    `json:"age"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// ActorCreateRequest is the admin request body for adding an actor or director.
type ActorCreateRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Age         int    `json:"age" validate:"gte=0,lte=32767"`
	Description string `json:"description" validate:"required"`
	Image       string `json:"image" validate:"required,max=255"`
	URL         string `json:"url" validate:"omitempty,max=160,slug"`
}
