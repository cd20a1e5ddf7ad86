package domain

import (
	"math"
	"time"
)

const (
	MinRating = 0
	MaxRating = 5
)

// Book is a recommendation posted by a single owner. OwnerID is set once
// at creation and never changes.
type Book struct {
	ID        string
	Title     string
	Caption   string
	Image     string
	Rating    float64
	OwnerID   string
	Owner     *UserSummary // populated by the global listing only
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidRating reports whether r is a finite number inside [MinRating, MaxRating].
func ValidRating(r float64) bool {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return false
	}
	return r >= MinRating && r <= MaxRating
}

// OwnedBy reports whether userID owns the book.
func (b *Book) OwnedBy(userID string) bool {
	return userID != "" && b.OwnerID == userID
}
