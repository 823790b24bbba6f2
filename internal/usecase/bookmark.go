package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bookmarks-rocks/api/internal/domain"
	"github.com/bookmarks-rocks/api/internal/metadata"
	"github.com/bookmarks-rocks/api/internal/repository"
	"github.com/google/uuid"
)

// minURLLen is a cheap sanity check, not URL validation. "a.io" fails,
// anything longer passes; garbage URLs simply fail enrichment later.
const minURLLen = 5

type BookmarkUsecase struct {
	repo    repository.BookmarkRepository
	fetcher metadata.Source
	logger  *slog.Logger
}

func NewBookmarkUsecase(repo repository.BookmarkRepository, fetcher metadata.Source, logger *slog.Logger) *BookmarkUsecase {
	return &BookmarkUsecase{
		repo:    repo,
		fetcher: fetcher,
		logger:  logger.With("component", "bookmark_usecase"),
	}
}

func (u *BookmarkUsecase) List(ctx context.Context, userID string) ([]*domain.Bookmark, error) {
	bookmarks, err := u.repo.ListActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return bookmarks, nil
}

func (u *BookmarkUsecase) Get(ctx context.Context, userID, id string) (*domain.Bookmark, error) {
	// A malformed id is indistinguishable from an unknown one.
	if uuid.Validate(id) != nil {
		return nil, domain.ErrBookmarkNotFound
	}
	b, err := u.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("get bookmark: %w", err)
	}
	return b, nil
}

// Add creates the bookmark, or revives a previously deleted one for
// the same URL. New rows are left in fetch_state = pending; the
// enricher fills in metadata out of band.
func (u *BookmarkUsecase) Add(ctx context.Context, userID, url string) (*domain.Bookmark, error) {
	if len(url) < minURLLen {
		return nil, domain.ErrInvalidURL
	}
	b, err := u.repo.Upsert(ctx, userID, url)
	if err != nil {
		return nil, fmt.Errorf("add bookmark: %w", err)
	}
	return b, nil
}

func (u *BookmarkUsecase) Delete(ctx context.Context, userID, id string) error {
	if uuid.Validate(id) != nil {
		return domain.ErrBookmarkNotFound
	}
	if err := u.repo.SoftDelete(ctx, id, userID); err != nil {
		if errors.Is(err, domain.ErrBookmarkNotFound) {
			return domain.ErrBookmarkNotFound
		}
		return fmt.Errorf("delete bookmark: %w", err)
	}
	return nil
}

// Refresh re-fetches metadata for a bookmark on demand. A failed fetch
// degrades to the bare bookmark rather than failing the call.
func (u *BookmarkUsecase) Refresh(ctx context.Context, userID, id string) (*domain.Bookmark, error) {
	b, err := u.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	meta, err := u.fetcher.Fetch(ctx, b.URL)
	if err != nil {
		u.logger.Warn("refresh fetch failed", "bookmark_id", b.ID, "url", b.URL, "error", err)
		if err := u.repo.MarkFailed(ctx, b.ID); err != nil {
			u.logger.Error("mark bookmark failed", "bookmark_id", b.ID, "error", err)
		}
		return b, nil
	}

	updated, err := u.repo.SetMetadata(ctx, b.ID, meta)
	if err != nil {
		return nil, fmt.Errorf("save metadata: %w", err)
	}
	return updated, nil
}
