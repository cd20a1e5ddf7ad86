package queue

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookworm-social/bookworm-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 2
	channelBuffer  = 256
	deleteTimeout  = 30 * time.Second
)

// BlobDeleter is the storage operation the cleaner runs.
type BlobDeleter interface {
	Delete(ctx context.Context, id string) error
}

// BlobCleaner deletes blobs orphaned by a failed book insert on a small pool
// of background workers. Deletion is best effort: failures are logged and
// counted, never retried.
type BlobCleaner struct {
	jobs    chan string
	blobs   BlobDeleter
	workers int
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewBlobCleaner creates a BlobCleaner with numWorkers workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewBlobCleaner(numWorkers int, blobs BlobDeleter, log zerolog.Logger) *BlobCleaner {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &BlobCleaner{
		jobs:    make(chan string, channelBuffer),
		blobs:   blobs,
		workers: numWorkers,
		log:     log,
	}
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (c *BlobCleaner) Start(ctx context.Context) {
	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.runWorker(ctx, i)
	}
}

// Wait blocks until every worker has returned.
func (c *BlobCleaner) Wait() {
	c.wg.Wait()
}

// Enqueue schedules id for deletion. It never blocks the request path: when
// the buffer is full the id is dropped and logged.
func (c *BlobCleaner) Enqueue(id string) {
	select {
	case c.jobs <- id:
		metrics.BlobCleanupQueueDepth.Inc()
	default:
		metrics.BlobCleanupTotal.WithLabelValues("dropped").Inc()
		c.log.Warn().Str("blob_id", id).Msg("cleanup queue full, orphaned blob dropped")
	}
}

func (c *BlobCleaner) runWorker(ctx context.Context, id int) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case blobID := <-c.jobs:
			metrics.BlobCleanupQueueDepth.Dec()
			c.delete(ctx, id, blobID)
		}
	}
}

func (c *BlobCleaner) delete(ctx context.Context, workerID int, blobID string) {
	ctx, cancel := context.WithTimeout(ctx, deleteTimeout)
	defer cancel()

	if err := c.blobs.Delete(ctx, blobID); err != nil {
		metrics.BlobCleanupTotal.WithLabelValues("failed").Inc()
		c.log.Error().Err(err).
			Str("blob_id", blobID).
			Int("worker_id", workerID).
			Msg("orphaned blob deletion failed")
		return
	}
	metrics.BlobCleanupTotal.WithLabelValues("deleted").Inc()
	c.log.Debug().Str("blob_id", blobID).Msg("orphaned blob deleted")
}
