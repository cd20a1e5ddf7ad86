package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookworm-social/bookworm-api/internal/core/domain"
)

const collectionBooks = "books"

type BookRepository struct {
	col *mongo.Collection
}

func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{col: db.Collection(collectionBooks)}
}

type ownerDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	Username     string             `bson:"username"`
	ProfileImage string             `bson:"profileImage"`
}

type bookDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Caption   string             `bson:"caption"`
	Image     string             `bson:"image"`
	Rating    float64            `bson:"rating"`
	User      primitive.ObjectID `bson:"user"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`

	// Owner is only present in documents produced by the listing pipeline.
	Owner *ownerDocument `bson:"owner,omitempty"`
}

func (d bookDocument) toDomain() *domain.Book {
	b := &domain.Book{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Caption:   d.Caption,
		Image:     d.Image,
		Rating:    d.Rating,
		OwnerID:   d.User.Hex(),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
	if d.Owner != nil {
		b.Owner = &domain.UserSummary{
			ID:           d.Owner.ID.Hex(),
			Username:     d.Owner.Username,
			ProfileImage: d.Owner.ProfileImage,
		}
	}
	return b
}

// Create inserts a new book document and assigns b its id and timestamps.
func (r *BookRepository) Create(ctx context.Context, b *domain.Book) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	owner, err := primitive.ObjectIDFromHex(b.OwnerID)
	if err != nil {
		return fmt.Errorf("invalid owner id %q: %w", b.OwnerID, err)
	}

	now := time.Now().UTC()
	doc := bookDocument{
		ID:        primitive.NewObjectID(),
		Title:     b.Title,
		Caption:   b.Caption,
		Image:     b.Image,
		Rating:    b.Rating,
		User:      owner,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert book: %w", err)
	}

	b.ID = doc.ID.Hex()
	b.CreatedAt = now
	b.UpdatedAt = now
	return nil
}

// FindByID retrieves a book; malformed ids are reported as not found.
func (r *BookRepository) FindByID(ctx context.Context, id string) (*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrBookNotFound
	}

	var doc bookDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// List returns a page of books, newest first, each joined with its owner's
// public fields, plus the total number of books.
func (r *BookRepository) List(ctx context.Context, skip, limit int) ([]*domain.Book, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, listPipeline(skip, limit))
	if err != nil {
		return nil, 0, fmt.Errorf("aggregate books: %w", err)
	}
	books, err := decodeBooks(ctx, cur)
	if err != nil {
		return nil, 0, err
	}

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}
	return books, total, nil
}

// ListByOwner returns every book of ownerID, newest first.
func (r *BookRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return []*domain.Book{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}
	return decodeBooks(ctx, cur)
}

// Delete removes a single book. A concurrent delete that got there first
// surfaces as domain.ErrBookNotFound.
func (r *BookRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrBookNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes used by the listing queries.
func (r *BookRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// listPipeline sorts, windows and then joins the owner so the $lookup only
// runs for the books on the requested page.
func listPipeline(skip, limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$skip", Value: int64(skip)}},
		{{Key: "$limit", Value: int64(limit)}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionUsers},
			{Key: "localField", Value: "user"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner"},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$project", Value: bson.D{{Key: "username", Value: 1}, {Key: "profileImage", Value: 1}}}},
			}},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$owner"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}

func decodeBooks(ctx context.Context, cur *mongo.Cursor) ([]*domain.Book, error) {
	defer cur.Close(ctx)

	books := make([]*domain.Book, 0)
	for cur.Next(ctx) {
		var doc bookDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode book: %w", err)
		}
		books = append(books, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return books, nil
}
