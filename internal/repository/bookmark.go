package repository

import (
	"context"
	"time"

	"github.com/bookmarks-rocks/api/internal/domain"
)

type BookmarkRepository interface {
	// Upsert inserts a bookmark for (userID, url) or revives the
	// existing row by clearing deleted_at. A single statement with
	// conflict handling, so two concurrent adds of the same URL can
	// never produce two rows.
	Upsert(ctx context.Context, userID, url string) (*domain.Bookmark, error)

	// GetByID returns the active (not soft-deleted) bookmark owned by
	// userID, or domain.ErrBookmarkNotFound.
	GetByID(ctx context.Context, id, userID string) (*domain.Bookmark, error)

	// ListActive returns the owner's active bookmarks, most recently
	// touched first (updated_at DESC, created_at DESC).
	ListActive(ctx context.Context, userID string) ([]*domain.Bookmark, error)

	// SoftDelete stamps deleted_at on the active row. Returns
	// domain.ErrBookmarkNotFound when no active row matches.
	SoftDelete(ctx context.Context, id, userID string) error

	// SetMetadata records a successful fetch and moves the bookmark to
	// fetch_state = done.
	SetMetadata(ctx context.Context, id string, meta domain.Metadata) (*domain.Bookmark, error)

	// Enricher methods. Claim flips up to limit pending rows to
	// fetching under FOR UPDATE SKIP LOCKED so concurrent enrichers
	// never double-fetch. MarkFailed keeps the bare bookmark usable.
	Claim(ctx context.Context, limit int) ([]*domain.Bookmark, error)
	MarkFailed(ctx context.Context, id string) error

	// ReclaimStale resets rows stuck in fetching since before cutoff
	// (crashed enricher) back to pending.
	ReclaimStale(ctx context.Context, cutoff time.Time, limit int) (int, error)

	// RequeueStaleMetadata re-queues done rows whose metadata is older
	// than cutoff for a periodic refresh.
	RequeueStaleMetadata(ctx context.Context, cutoff time.Time, limit int) (int, error)
}
