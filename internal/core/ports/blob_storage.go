package ports

import "context"

// StoredBlob describes an object persisted by BlobStorage.
type StoredBlob struct {
	URL string
	ID  string
}

// BlobStorage hosts book cover images.
type BlobStorage interface {
	Upload(ctx context.Context, data []byte, contentType string) (StoredBlob, error)
	Delete(ctx context.Context, id string) error
}

// BlobCleaner accepts blob ids for asynchronous best-effort deletion.
type BlobCleaner interface {
	Enqueue(id string)
}
