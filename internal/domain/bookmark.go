package domain

import (
	"errors"
	"time"
)

var (
	ErrBookmarkNotFound = errors.New("bookmark not found")
	ErrInvalidURL       = errors.New("invalid bookmark url")
)

// FetchState tracks metadata enrichment of a bookmark. New bookmarks
// start as pending; the enricher moves them to fetching and then to
// done or failed. A failed fetch leaves the bookmark usable with a
// bare URL.
type FetchState string

const (
	FetchPending  FetchState = "pending"
	FetchFetching FetchState = "fetching"
	FetchDone     FetchState = "done"
	FetchFailed   FetchState = "failed"
)

type Bookmark struct {
	ID          string
	UserID      string
	URL         string
	Title       *string
	Description *string
	Screenshot  *string
	Tags        []string

	FetchState FetchState
	ClaimedAt  *time.Time
	FetchedAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Metadata is what a page fetch yields for a bookmark.
type Metadata struct {
	Title       string
	Description string
	Tags        []string
}

// FetchAttempt is one enrichment attempt against a bookmark's URL,
// kept for debugging slow or flaky sites.
type FetchAttempt struct {
	ID          string
	BookmarkID  string
	WorkerID    string
	StartedAt   time.Time
	CompletedAt *time.Time
	Error       *string
	DurationMS  *int64
}
