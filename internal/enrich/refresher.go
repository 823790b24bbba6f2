package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bookmarks-rocks/api/internal/metrics"
	"github.com/bookmarks-rocks/api/internal/repository"
	"github.com/robfig/cron/v3"
)

// Refresher periodically re-queues bookmarks whose metadata has gone
// stale, so page titles and descriptions track the live page over time.
type Refresher struct {
	repo         repository.BookmarkRepository
	logger       *slog.Logger
	schedule     string
	refreshAfter time.Duration
	cron         *cron.Cron
}

func NewRefresher(repo repository.BookmarkRepository, logger *slog.Logger, schedule string, refreshAfter time.Duration) (*Refresher, error) {
	r := &Refresher{
		repo:         repo,
		logger:       logger.With("component", "refresher"),
		schedule:     schedule,
		refreshAfter: refreshAfter,
		cron:         cron.New(),
	}

	if _, err := r.cron.AddFunc(schedule, r.run); err != nil {
		return nil, fmt.Errorf("parse refresh schedule %q: %w", schedule, err)
	}
	return r, nil
}

// Start runs the cron loop until ctx is cancelled.
func (r *Refresher) Start(ctx context.Context) {
	r.cron.Start()
	r.logger.Info("refresher started", "schedule", r.schedule, "refresh_after", r.refreshAfter)

	<-ctx.Done()
	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
	r.logger.Info("refresher shut down")
}

func (r *Refresher) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-r.refreshAfter)
	requeued, err := r.repo.RequeueStaleMetadata(ctx, cutoff, 500)
	if err != nil {
		r.logger.Error("requeue stale metadata", "error", err)
		return
	}
	if requeued > 0 {
		metrics.RefreshRequeuedTotal.Add(float64(requeued))
		r.logger.Info("requeued stale bookmarks for refresh", "count", requeued)
	}
}
