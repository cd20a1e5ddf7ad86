package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/bookworm-social/bookworm-api/internal/core/domain"
	"github.com/bookworm-social/bookworm-api/internal/core/ports"
)

const (
	DefaultPage  = 1
	DefaultLimit = 5
	MaxLimit     = 100
)

// BookServiceConfig tunes BookService.
type BookServiceConfig struct {
	// BlobURLMarker identifies image URLs hosted by our BlobStorage. Images
	// whose URL does not contain it are never deleted remotely.
	BlobURLMarker string
}

type BookService struct {
	repo    ports.BookRepository
	blobs   ports.BlobStorage
	cleaner ports.BlobCleaner      // optional
	idem    ports.IdempotencyStore // optional
	cfg     BookServiceConfig
	logger  zerolog.Logger
}

func NewBookService(repo ports.BookRepository, blobs ports.BlobStorage, cfg BookServiceConfig, logger zerolog.Logger) *BookService {
	return &BookService{repo: repo, blobs: blobs, cfg: cfg, logger: logger}
}

// WithCleaner registers the queue receiving blobs orphaned by a failed insert.
func (s *BookService) WithCleaner(c ports.BlobCleaner) *BookService {
	s.cleaner = c
	return s
}

// WithIdempotency enables Idempotency-Key replay detection on Create.
func (s *BookService) WithIdempotency(store ports.IdempotencyStore) *BookService {
	s.idem = store
	return s
}

// Create validates the input, uploads the cover and persists the book.
func (s *BookService) Create(ctx context.Context, in ports.CreateBookInput) (*domain.Book, error) {
	title := strings.TrimSpace(in.Title)
	caption := strings.TrimSpace(in.Caption)
	if title == "" || caption == "" || len(in.Image) == 0 || in.Rating == nil {
		return nil, domain.ErrMissingFields
	}
	if !domain.ValidRating(*in.Rating) {
		return nil, domain.ErrInvalidRating
	}
	mime := mimetype.Detect(in.Image)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, domain.ErrInvalidImage
	}

	if existing := s.replay(ctx, in.OwnerID, in.IdempotencyKey); existing != nil {
		return existing, nil
	}

	blob, err := s.blobs.Upload(ctx, in.Image, mime.String())
	if err != nil {
		s.logger.Error().Err(err).Str("owner_id", in.OwnerID).Msg("cover upload failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrBlobStorage, err)
	}

	book := &domain.Book{
		Title:   title,
		Caption: caption,
		Image:   blob.URL,
		Rating:  *in.Rating,
		OwnerID: in.OwnerID,
	}
	if err := s.repo.Create(ctx, book); err != nil {
		s.logger.Error().Err(err).Str("blob_id", blob.ID).Msg("failed to create book, releasing cover")
		if s.cleaner != nil {
			s.cleaner.Enqueue(blob.ID)
		}
		return nil, fmt.Errorf("create book: %w", err)
	}

	if s.idem != nil && in.IdempotencyKey != "" {
		if err := s.idem.Remember(ctx, in.OwnerID, in.IdempotencyKey, book.ID); err != nil {
			s.logger.Warn().Err(err).Str("book_id", book.ID).Msg("failed to store idempotency key")
		}
	}

	s.logger.Info().Str("book_id", book.ID).Str("owner_id", in.OwnerID).Msg("book created")
	return book, nil
}

// replay returns the book previously created under the same idempotency key,
// or nil. Store failures are logged and treated as a miss.
func (s *BookService) replay(ctx context.Context, ownerID, key string) *domain.Book {
	if s.idem == nil || key == "" {
		return nil
	}
	bookID, found, err := s.idem.Lookup(ctx, ownerID, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("owner_id", ownerID).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if !found {
		return nil
	}
	book, err := s.repo.FindByID(ctx, bookID)
	if err != nil {
		// The book was deleted since; treat the key as fresh.
		return nil
	}
	s.logger.Info().Str("idempotency_key", key).Str("book_id", book.ID).Msg("idempotent replay")
	return book
}

// List returns one page of all books, newest first.
func (s *BookService) List(ctx context.Context, in ports.ListBooksInput) (*ports.ListBooksResult, error) {
	page, limit := normalizePage(in.Page, in.Limit)
	skip := (page - 1) * limit

	books, total, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	if books == nil {
		books = []*domain.Book{}
	}

	return &ports.ListBooksResult{
		Books:       books,
		TotalBooks:  total,
		CurrentPage: page,
		TotalPages:  totalPages(total, limit),
	}, nil
}

// ListMine returns every book of ownerID, newest first.
func (s *BookService) ListMine(ctx context.Context, ownerID string) ([]*domain.Book, error) {
	books, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list books of %s: %w", ownerID, err)
	}
	if books == nil {
		books = []*domain.Book{}
	}
	return books, nil
}

// Delete removes a book owned by callerID. The hosted cover is deleted
// first; if that fails the record is kept.
func (s *BookService) Delete(ctx context.Context, bookID, callerID string) error {
	book, err := s.repo.FindByID(ctx, bookID)
	if err != nil {
		return err
	}
	if !book.OwnedBy(callerID) {
		return domain.ErrForbidden
	}

	if s.hostedByUs(book.Image) {
		blobID := BlobIDFromURL(book.Image)
		if blobID != "" {
			if err := s.blobs.Delete(ctx, blobID); err != nil {
				s.logger.Error().Err(err).Str("book_id", book.ID).Str("blob_id", blobID).Msg("failed to delete cover")
				return fmt.Errorf("%w: %v", domain.ErrBlobStorage, err)
			}
		}
	}

	if err := s.repo.Delete(ctx, book.ID); err != nil {
		if errors.Is(err, domain.ErrBookNotFound) {
			return err
		}
		return fmt.Errorf("delete book: %w", err)
	}

	s.logger.Info().Str("book_id", book.ID).Str("owner_id", callerID).Msg("book deleted")
	return nil
}

func (s *BookService) hostedByUs(imageURL string) bool {
	return s.cfg.BlobURLMarker != "" && imageURL != "" && strings.Contains(imageURL, s.cfg.BlobURLMarker)
}

// BlobIDFromURL extracts the storage id from a hosted image URL: the last
// path segment without its extension.
func BlobIDFromURL(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}
	base := path.Base(p)
	if base == "." || base == "/" {
		return ""
	}
	id, _, _ := strings.Cut(base, ".")
	return id
}

func normalizePage(page, limit int) (int, int) {
	if page <= 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
