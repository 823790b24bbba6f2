package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bookmarks-rocks/api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookmarkColumns = `id, user_id, url, title, description, screenshot, tags,
	fetch_state, claimed_at, fetched_at, created_at, updated_at, deleted_at`

type BookmarkRepository struct {
	pool *pgxpool.Pool
}

func NewBookmarkRepository(pool *pgxpool.Pool) *BookmarkRepository {
	return &BookmarkRepository{pool: pool}
}

func (r *BookmarkRepository) Upsert(ctx context.Context, userID, url string) (*domain.Bookmark, error) {
	// Single statement: a conflict on (user_id, url) revives the
	// existing row instead of inserting a duplicate, keeping its id and
	// any metadata from the first enrichment.
	query := `
		INSERT INTO bookmarks (user_id, url)
		VALUES ($1, $2)
		ON CONFLICT (user_id, url) DO UPDATE
		SET deleted_at = NULL,
		    updated_at = NOW()
		RETURNING ` + bookmarkColumns

	row := r.pool.QueryRow(ctx, query, userID, url)
	b, err := scanBookmark(row)
	if err != nil {
		return nil, fmt.Errorf("upsert bookmark: %w", err)
	}
	return b, nil
}

func (r *BookmarkRepository) GetByID(ctx context.Context, id, userID string) (*domain.Bookmark, error) {
	query := `
		SELECT ` + bookmarkColumns + `
		FROM bookmarks
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

	row := r.pool.QueryRow(ctx, query, id, userID)
	return scanBookmark(row)
}

func (r *BookmarkRepository) ListActive(ctx context.Context, userID string) ([]*domain.Bookmark, error) {
	query := `
		SELECT ` + bookmarkColumns + `
		FROM bookmarks
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY updated_at DESC, created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []*domain.Bookmark
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, nil
}

func (r *BookmarkRepository) SoftDelete(ctx context.Context, id, userID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE bookmarks
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`,
		id, userID)
	if err != nil {
		return fmt.Errorf("soft delete bookmark: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookmarkNotFound
	}
	return nil
}

func (r *BookmarkRepository) SetMetadata(ctx context.Context, id string, meta domain.Metadata) (*domain.Bookmark, error) {
	query := `
		UPDATE bookmarks
		SET title       = NULLIF($2, ''),
		    description = NULLIF($3, ''),
		    tags        = $4,
		    fetch_state = 'done',
		    claimed_at  = NULL,
		    fetched_at  = NOW(),
		    updated_at  = NOW()
		WHERE id = $1
		RETURNING ` + bookmarkColumns

	tags := meta.Tags
	if tags == nil {
		tags = []string{}
	}
	row := r.pool.QueryRow(ctx, query, id, meta.Title, meta.Description, tags)
	return scanBookmark(row)
}

func (r *BookmarkRepository) Claim(ctx context.Context, limit int) ([]*domain.Bookmark, error) {
	// FOR UPDATE SKIP LOCKED prevents double-fetching across enrichers.
	query := `
		UPDATE bookmarks
		SET fetch_state = 'fetching',
		    claimed_at  = NOW()
		WHERE id IN (
			SELECT id FROM bookmarks
			WHERE fetch_state = 'pending' AND deleted_at IS NULL
			ORDER BY created_at ASC
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + bookmarkColumns

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("claim bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []*domain.Bookmark
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, nil
}

func (r *BookmarkRepository) MarkFailed(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE bookmarks
		SET fetch_state = 'failed',
		    claimed_at  = NULL
		WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark bookmark failed: %w", err)
	}
	return nil
}

func (r *BookmarkRepository) ReclaimStale(ctx context.Context, cutoff time.Time, limit int) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE bookmarks
		SET fetch_state = 'pending',
		    claimed_at  = NULL
		WHERE id IN (
			SELECT id FROM bookmarks
			WHERE fetch_state = 'fetching'
			  AND claimed_at < $1
			ORDER BY claimed_at ASC
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)`, cutoff, limit)
	if err != nil {
		return 0, fmt.Errorf("reclaim stale bookmarks: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *BookmarkRepository) RequeueStaleMetadata(ctx context.Context, cutoff time.Time, limit int) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE bookmarks
		SET fetch_state = 'pending'
		WHERE id IN (
			SELECT id FROM bookmarks
			WHERE fetch_state = 'done'
			  AND fetched_at < $1
			  AND deleted_at IS NULL
			ORDER BY fetched_at ASC
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)`, cutoff, limit)
	if err != nil {
		return 0, fmt.Errorf("requeue stale metadata: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func scanBookmark(row rowScanner) (*domain.Bookmark, error) {
	var b domain.Bookmark
	err := row.Scan(
		&b.ID, &b.UserID, &b.URL, &b.Title, &b.Description, &b.Screenshot, &b.Tags,
		&b.FetchState, &b.ClaimedAt, &b.FetchedAt, &b.CreatedAt, &b.UpdatedAt, &b.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookmarkNotFound
		}
		return nil, fmt.Errorf("scan bookmark: %w", err)
	}
	return &b, nil
}
