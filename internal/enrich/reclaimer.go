package enrich

import (
	"context"
	"log/slog"
	"time"

	"github.com/bookmarks-rocks/api/internal/metrics"
	"github.com/bookmarks-rocks/api/internal/repository"
)

// Reclaimer rescues bookmarks stuck in fetch_state = fetching after an
// enricher crash, resetting them to pending for another attempt.
type Reclaimer struct {
	repo         repository.BookmarkRepository
	logger       *slog.Logger
	interval     time.Duration
	claimTimeout time.Duration
}

func NewReclaimer(repo repository.BookmarkRepository, logger *slog.Logger, interval, claimTimeout time.Duration) *Reclaimer {
	return &Reclaimer{
		repo:         repo,
		logger:       logger.With("component", "reclaimer"),
		interval:     interval,
		claimTimeout: claimTimeout,
	}
}

func (r *Reclaimer) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reclaimer started", "interval", r.interval, "claim_timeout", r.claimTimeout)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reclaimer shut down")
			return
		case <-ticker.C:
			r.reclaim(ctx)
		}
	}
}

func (r *Reclaimer) reclaim(ctx context.Context) {
	cutoff := time.Now().Add(-r.claimTimeout)

	reclaimed, err := r.repo.ReclaimStale(ctx, cutoff, 100)
	if err != nil {
		r.logger.Error("reclaim stale bookmarks", "error", err)
		return
	}
	if reclaimed > 0 {
		metrics.ReclaimedTotal.Add(float64(reclaimed))
		r.logger.Info("reclaimed stale bookmarks", "count", reclaimed)
	}
}
