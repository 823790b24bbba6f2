package postgres

import (
	"context"
	"fmt"

	"github.com/bookmarks-rocks/api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FetchLogRepository struct {
	pool *pgxpool.Pool
}

func NewFetchLogRepository(pool *pgxpool.Pool) *FetchLogRepository {
	return &FetchLogRepository{pool: pool}
}

func (r *FetchLogRepository) CreateAttempt(ctx context.Context, a *domain.FetchAttempt) (*domain.FetchAttempt, error) {
	query := `
		INSERT INTO fetch_attempts (bookmark_id, worker_id, started_at)
		VALUES ($1, $2, $3)
		RETURNING id, bookmark_id, worker_id, started_at,
		          completed_at, error, duration_ms`

	row := r.pool.QueryRow(ctx, query, a.BookmarkID, a.WorkerID, a.StartedAt)
	return scanFetchAttempt(row)
}

func (r *FetchLogRepository) CompleteAttempt(ctx context.Context, id string, errMsg *string, durationMS int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE fetch_attempts
		SET completed_at = NOW(),
		    error        = $2,
		    duration_ms  = $3
		WHERE id = $1`,
		id, errMsg, durationMS,
	)
	if err != nil {
		return fmt.Errorf("complete fetch attempt: %w", err)
	}
	return nil
}

func (r *FetchLogRepository) ListByBookmarkID(ctx context.Context, bookmarkID string) ([]*domain.FetchAttempt, error) {
	query := `
		SELECT id, bookmark_id, worker_id, started_at,
		       completed_at, error, duration_ms
		FROM fetch_attempts
		WHERE bookmark_id = $1
		ORDER BY started_at ASC`

	rows, err := r.pool.Query(ctx, query, bookmarkID)
	if err != nil {
		return nil, fmt.Errorf("list fetch attempts: %w", err)
	}
	defer rows.Close()

	var attempts []*domain.FetchAttempt
	for rows.Next() {
		a, err := scanFetchAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, nil
}

func scanFetchAttempt(row rowScanner) (*domain.FetchAttempt, error) {
	var a domain.FetchAttempt
	err := row.Scan(
		&a.ID, &a.BookmarkID, &a.WorkerID, &a.StartedAt,
		&a.CompletedAt, &a.Error, &a.DurationMS,
	)
	if err != nil {
		return nil, fmt.Errorf("scan fetch attempt: %w", err)
	}
	return &a, nil
}
