package service

import (
	"context"
	"time"

	"tasker_backend/internal/blob"
	"tasker_backend/internal/logger"
	"tasker_backend/internal/metrics"
	"tasker_backend/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// BlobSweeper is the deferred-deletion hook for attachment blobs. Soft
// deleting an attachment never touches blob storage synchronously; the
// sweeper later deletes the blobs of tombstoned attachments and marks the
// rows swept.
type BlobSweeper struct {
	attachments *repository.AttachmentRepository
	blobs       blob.Store
	interval    time.Duration
	batch       int
	stop        chan struct{}
}

func NewBlobSweeper(db *pgxpool.Pool, blobs blob.Store, interval time.Duration, batch int) *BlobSweeper {
	if batch <= 0 {
		batch = 50
	}
	return &BlobSweeper{
		attachments: repository.NewAttachmentRepository(db),
		blobs:       blobs,
		interval:    interval,
		batch:       batch,
		stop:        make(chan struct{}),
	}
}

// Start runs the sweep loop in a goroutine until Stop is called.
func (s *BlobSweeper) Start() {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n, err := s.SweepOnce(context.Background()); err != nil {
					logger.Error("blob sweep failed", "error", err)
				} else if n > 0 {
					logger.Info("blob sweep finished", "deleted", n)
				}
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *BlobSweeper) Stop() {
	close(s.stop)
}

// SweepOnce deletes blobs for one batch of tombstoned attachments. A blob
// that fails to delete is retried on the next sweep; rows are only marked
// swept after the blob is gone.
func (s *BlobSweeper) SweepOnce(ctx context.Context) (int, error) {
	candidates, err := s.attachments.ListSweepable(ctx, s.batch)
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, a := range candidates {
		if err := s.blobs.Delete(ctx, a.URL); err != nil {
			logger.Warn("blob delete failed, will retry", "attachment_id", a.ID, "locator", a.URL, "error", err)
			continue
		}
		if err := s.attachments.MarkBlobDeleted(ctx, a.ID); err != nil {
			logger.Warn("failed to mark blob deleted", "attachment_id", a.ID, "error", err)
			continue
		}
		metrics.BlobsSwept.Inc()
		swept++
	}
	return swept, nil
}
