package janitor

import (
	"context"
	"time"

	"github.com/apex/log"
	"github.com/cockroachdb/errors/markers"
	"github.com/veedubyou/separation-be/src/shared/filestore"
	"github.com/veedubyou/separation-be/src/shared/lib/cerr"
)

// Janitor evicts files older than a TTL from a set of stores.
type Janitor struct {
	stores   []filestore.FileStore
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
}

func NewJanitor(ttl time.Duration, interval time.Duration, stores ...filestore.FileStore) Janitor {
	return Janitor{
		stores:   stores,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (j Janitor) WithClock(now func() time.Time) Janitor {
	j.now = now
	return j
}

// Sweep deletes every expired file once and returns how many were removed.
// A failing store does not stop the others from being swept.
func (j Janitor) Sweep(ctx context.Context) (int, error) {
	cutoff := j.now().Add(-j.ttl)
	deleted := 0
	var sweepErr error

	for _, store := range j.stores {
		files, err := store.ListFiles(ctx)
		if err != nil {
			sweepErr = cerr.Wrap(err).Error("Failed to list files")
			continue
		}

		for _, file := range filestore.Expired(files, cutoff) {
			err := store.DeleteFile(ctx, file.Key)
			if err != nil && !markers.Is(err, filestore.FileNotFound) {
				sweepErr = cerr.Field("key", file.Key).Wrap(err).Error("Failed to delete expired file")
				continue
			}
			deleted++
		}
	}

	return deleted, sweepErr
}

// Run sweeps immediately and then every interval until ctx is cancelled.
func (j Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	logger := log.WithFields(log.Fields{
		"ttl":      j.ttl.String(),
		"interval": j.interval.String(),
	})
	logger.Info("Starting janitor")

	for {
		deleted, err := j.Sweep(ctx)
		if err != nil {
			cerr.Log(err)
		}
		if deleted > 0 {
			logger.WithField("deleted", deleted).Info("Evicted expired files")
		}

		select {
		case <-ctx.Done():
			logger.Info("Stopping janitor")
			return
		case <-ticker.C:
		}
	}
}
