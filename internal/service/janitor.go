package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// BlobJanitor removes recordings once transcription no longer needs them.
type BlobJanitor struct {
	blobs     BlobStore
	category  string
	retention time.Duration
	now       func() time.Time
}

func NewBlobJanitor(blobs BlobStore, category string, retention time.Duration) *BlobJanitor {
	return &BlobJanitor{
		blobs:     blobs,
		category:  category,
		retention: retention,
		now:       time.Now,
	}
}

// Sweep deletes objects older than the retention period and returns how
// many were removed.
func (j *BlobJanitor) Sweep(ctx context.Context) (int, error) {
	objects, err := j.blobs.List(ctx, j.category)
	if err != nil {
		return 0, fmt.Errorf("list blobs: %w", err)
	}

	cutoff := j.now().Add(-j.retention)
	removed := 0
	for _, obj := range objects {
		if !obj.CreatedAt.Before(cutoff) {
			continue
		}
		if err := j.blobs.Delete(ctx, j.category, obj.Name); err != nil {
			slog.Error("delete stale blob", "category", j.category, "name", obj.Name, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}

// Run sweeps every interval until ctx is cancelled.
func (j *BlobJanitor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := j.Sweep(ctx)
			if err != nil {
				slog.Error("blob cleanup", "error", err)
				continue
			}
			if removed > 0 {
				slog.Info("blob cleanup", "category", j.category, "removed", removed)
			}
		}
	}
}
