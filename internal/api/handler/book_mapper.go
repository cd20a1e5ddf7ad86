package handler

import (
	"github.com/bookworm-social/bookworm-api/internal/core/domain"
	"github.com/bookworm-social/bookworm-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateBookInput(req createBookRequest, image []byte, ownerID, idempotencyKey string) ports.CreateBookInput {
	return ports.CreateBookInput{
		OwnerID:        ownerID,
		Title:          req.Title,
		Caption:        req.Caption,
		Image:          image,
		Rating:         req.Rating,
		IdempotencyKey: idempotencyKey,
	}
}

// --- Service result → HTTP response ---

func toBookResponse(b *domain.Book) bookResponse {
	owner := bookOwnerResponse{ID: b.OwnerID}
	if b.Owner != nil {
		owner.Username = b.Owner.Username
		owner.ProfileImage = b.Owner.ProfileImage
	}
	return bookResponse{
		ID:        b.ID,
		Title:     b.Title,
		Caption:   b.Caption,
		Image:     b.Image,
		Rating:    b.Rating,
		User:      owner,
		CreatedAt: b.CreatedAt.UTC(),
		UpdatedAt: b.UpdatedAt.UTC(),
	}
}

func toBookResponses(books []*domain.Book) []bookResponse {
	out := make([]bookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, toBookResponse(b))
	}
	return out
}

func toListBooksResponse(r *ports.ListBooksResult) listBooksResponse {
	return listBooksResponse{
		Books:       toBookResponses(r.Books),
		TotalBooks:  r.TotalBooks,
		CurrentPage: r.CurrentPage,
		TotalPages:  r.TotalPages,
	}
}
