package repository

import (
	"context"

	"github.com/bookmarks-rocks/api/internal/domain"
)

// Usecases depend on interfaces, not the pgx implementations, so tests
// can pass fakes and the storage engine stays swappable.
type UserRepository interface {
	// Create inserts a new user. A duplicate email surfaces as
	// domain.ErrEmailTaken no matter which of two racing callers lost.
	Create(ctx context.Context, email, passwordHash string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
