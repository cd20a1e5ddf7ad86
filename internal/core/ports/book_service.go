package ports

import (
	"context"

	"github.com/bookworm-social/bookworm-api/internal/core/domain"
)

// CreateBookInput carries everything needed to publish a book.
type CreateBookInput struct {
	OwnerID        string
	Title          string
	Caption        string
	Image          []byte
	Rating         *float64 // nil means the field was not supplied
	IdempotencyKey string
}

// ListBooksInput holds the raw paging parameters; non-positive values fall
// back to the defaults.
type ListBooksInput struct {
	Page  int
	Limit int
}

// ListBooksResult is one page of the global listing.
type ListBooksResult struct {
	Books       []*domain.Book
	TotalBooks  int64
	CurrentPage int
	TotalPages  int
}

// BookService defines use-case operations for books.
type BookService interface {
	Create(ctx context.Context, in CreateBookInput) (*domain.Book, error)
	List(ctx context.Context, in ListBooksInput) (*ListBooksResult, error)
	ListMine(ctx context.Context, ownerID string) ([]*domain.Book, error)
	Delete(ctx context.Context, bookID, callerID string) error
}
