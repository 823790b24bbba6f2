package repository

import (
	"context"

	"github.com/bookmarks-rocks/api/internal/domain"
)

type FetchLogRepository interface {
	// CreateAttempt opens an attempt record at the moment the page
	// fetch starts. Returns the persisted attempt (with its
	// DB-generated ID) so the caller can close it once the fetch ends.
	CreateAttempt(ctx context.Context, attempt *domain.FetchAttempt) (*domain.FetchAttempt, error)

	// CompleteAttempt closes an open attempt with the fetch outcome.
	// errMsg is nil on success.
	CompleteAttempt(ctx context.Context, id string, errMsg *string, durationMS int64) error

	// ListByBookmarkID returns all attempts for a bookmark, ordered by
	// started_at ASC. Ownership is verified by the caller.
	ListByBookmarkID(ctx context.Context, bookmarkID string) ([]*domain.FetchAttempt, error)
}
