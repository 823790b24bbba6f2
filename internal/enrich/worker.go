package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/bookmarks-rocks/api/internal/domain"
	"github.com/bookmarks-rocks/api/internal/metadata"
	"github.com/bookmarks-rocks/api/internal/metrics"
	"github.com/bookmarks-rocks/api/internal/repository"
)

// Worker claims pending bookmarks from the store and fetches page
// metadata for them under a bounded goroutine pool. Enrichment is
// best-effort: a failed fetch marks the bookmark failed and leaves the
// bare URL in place.
type Worker struct {
	id           string
	repo         repository.BookmarkRepository
	fetchLog     repository.FetchLogRepository
	fetcher      metadata.Source
	logger       *slog.Logger
	pollInterval time.Duration
	concurrency  int
	sem          chan struct{}
}

func NewWorker(
	repo repository.BookmarkRepository,
	fetchLog repository.FetchLogRepository,
	fetcher metadata.Source,
	logger *slog.Logger,
	pollInterval time.Duration,
	concurrency int,
) *Worker {
	hostname, _ := os.Hostname()
	id := fmt.Sprintf("%s-%d", hostname, os.Getpid())
	return &Worker{
		id:           id,
		repo:         repo,
		fetchLog:     fetchLog,
		fetcher:      fetcher,
		logger:       logger.With("component", "enricher", "worker_id", id),
		pollInterval: pollInterval,
		concurrency:  concurrency,
		sem:          make(chan struct{}, concurrency),
	}
}

func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("enricher started", "concurrency", w.concurrency)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("enricher shut down")
			return
		case <-ticker.C:
			w.processBatch(ctx)
		}
	}
}

func (w *Worker) processBatch(ctx context.Context) {
	available := cap(w.sem) - len(w.sem)
	if available == 0 {
		return
	}

	bookmarks, err := w.repo.Claim(ctx, available)
	if err != nil {
		w.logger.Error("claim bookmarks", "error", err)
		return
	}
	if len(bookmarks) == 0 {
		return
	}

	w.logger.Info("claimed bookmarks", "count", len(bookmarks))

	for _, b := range bookmarks {
		w.sem <- struct{}{}
		go func(b *domain.Bookmark) {
			metrics.FetchesInFlight.Inc()
			defer metrics.FetchesInFlight.Dec()
			defer func() { <-w.sem }()
			w.enrich(ctx, b)
		}(b)
	}
}

func (w *Worker) enrich(ctx context.Context, b *domain.Bookmark) {
	metrics.FetchPickupLatency.Observe(time.Since(b.CreatedAt).Seconds())

	startedAt := time.Now()

	// Open the attempt record before fetching so a crashed worker
	// leaves a visible incomplete entry in the log.
	attempt, err := w.fetchLog.CreateAttempt(ctx, &domain.FetchAttempt{
		BookmarkID: b.ID,
		WorkerID:   w.id,
		StartedAt:  startedAt,
	})
	if err != nil {
		// If the DB rejects this write the status updates below would
		// fail too. The row stays in fetching; the reclaimer resets it.
		w.logger.Error("create fetch attempt, aborting — reclaimer will retry", "bookmark_id", b.ID, "error", err)
		return
	}

	meta, fetchErr := w.fetcher.Fetch(ctx, b.URL)
	duration := time.Since(startedAt)

	if fetchErr != nil {
		errMsg := fetchErr.Error()
		w.closeAttempt(ctx, attempt, &errMsg, duration.Milliseconds())
		metrics.FetchDuration.WithLabelValues("failure").Observe(duration.Seconds())
		metrics.FetchesTotal.WithLabelValues("failure").Inc()

		if err := w.repo.MarkFailed(ctx, b.ID); err != nil {
			w.logger.Error("mark bookmark failed", "bookmark_id", b.ID, "error", err)
		}
		w.logger.Warn("metadata fetch failed", "bookmark_id", b.ID, "url", b.URL, "error", fetchErr)
		return
	}

	w.closeAttempt(ctx, attempt, nil, duration.Milliseconds())
	metrics.FetchDuration.WithLabelValues("success").Observe(duration.Seconds())
	metrics.FetchesTotal.WithLabelValues("success").Inc()

	if _, err := w.repo.SetMetadata(ctx, b.ID, meta); err != nil {
		w.logger.Error("save metadata", "bookmark_id", b.ID, "error", err)
		return
	}
	w.logger.Info("bookmark enriched", "bookmark_id", b.ID, "url", b.URL, "duration", duration)
}

func (w *Worker) closeAttempt(ctx context.Context, attempt *domain.FetchAttempt, errMsg *string, durationMS int64) {
	if err := w.fetchLog.CompleteAttempt(ctx, attempt.ID, errMsg, durationMS); err != nil {
		w.logger.Error("complete fetch attempt", "bookmark_id", attempt.BookmarkID, "error", err)
	}
}
