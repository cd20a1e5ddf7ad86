package ports

import (
	"context"

	"github.com/bookworm-social/bookworm-api/internal/core/domain"
)

// BookRepository defines persistence operations for books.
type BookRepository interface {
	// Create stores b and fills in its ID and timestamps.
	Create(ctx context.Context, b *domain.Book) error
	FindByID(ctx context.Context, id string) (*domain.Book, error)
	// List returns a window of all books, newest first, with owners expanded,
	// plus the total number of books.
	List(ctx context.Context, skip, limit int) ([]*domain.Book, int64, error)
	// ListByOwner returns every book of ownerID, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Book, error)
	// Delete removes the book; domain.ErrBookNotFound when it is already gone.
	Delete(ctx context.Context, id string) error
}

// IdempotencyStore remembers which book a (owner, key) pair produced.
type IdempotencyStore interface {
	Lookup(ctx context.Context, ownerID, key string) (bookID string, found bool, err error)
	Remember(ctx context.Context, ownerID, key, bookID string) error
}
