package handler

import "time"

// errorBody documents the error envelope rendered by the central error handler.
type errorBody struct {
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type createBookRequest struct {
	Title   string `json:"title" validate:"max=200"`
	Caption string `json:"caption" validate:"max=2000"`
	// Image is a base64 payload or a data:image/...;base64, URI.
	Image  string   `json:"image"`
	Rating *float64 `json:"rating"`
}

type bookOwnerResponse struct {
	ID           string `json:"id"`
	Username     string `json:"username,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

type bookResponse struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Caption   string            `json:"caption"`
	Image     string            `json:"image"`
	Rating    float64           `json:"rating"`
	User      bookOwnerResponse `json:"user"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

type listBooksResponse struct {
	Books       []bookResponse `json:"books"`
	TotalBooks  int64          `json:"totalBooks"`
	CurrentPage int            `json:"currentPage"`
	TotalPages  int            `json:"totalPages"`
}
