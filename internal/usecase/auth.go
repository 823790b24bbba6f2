package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/bookmarks-rocks/api/internal/domain"
	"github.com/bookmarks-rocks/api/internal/email"
	"github.com/bookmarks-rocks/api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const (
	// minPasswordLen mirrors the registration rule: passwords of 5+
	// characters are accepted, 4 or fewer are not.
	minPasswordLen = 5
	maxEmailLen    = 255
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9-]+(?:\.[a-zA-Z0-9-]+)*$`)

// tokenIssuer is the subset of token.Service the usecase needs.
type tokenIssuer interface {
	Issue(userID string) (string, error)
}

type AuthUsecase struct {
	users  repository.UserRepository
	tokens tokenIssuer
	email  email.Sender
	logger *slog.Logger
}

func NewAuthUsecase(users repository.UserRepository, tokens tokenIssuer, emailSender email.Sender, logger *slog.Logger) *AuthUsecase {
	return &AuthUsecase{
		users:  users,
		tokens: tokens,
		email:  emailSender,
		logger: logger.With("component", "auth_usecase"),
	}
}

// Register validates credentials, stores the user with a bcrypt hash,
// and returns the user together with a fresh token. The welcome email
// is best-effort and never fails the registration.
func (u *AuthUsecase) Register(ctx context.Context, emailAddr, password string) (*domain.User, string, error) {
	if len(emailAddr) > maxEmailLen || !emailRe.MatchString(emailAddr) {
		return nil, "", domain.ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return nil, "", domain.ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := u.users.Create(ctx, emailAddr, string(hash))
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, "", domain.ErrEmailTaken
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	signed, err := u.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	u.sendWelcome(user)

	return user, signed, nil
}

// Login verifies the password against the stored bcrypt hash and
// returns a signed token. Unknown email and wrong password are
// indistinguishable to the caller.
func (u *AuthUsecase) Login(ctx context.Context, emailAddr, password string) (string, error) {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidLogin
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrInvalidLogin
	}

	signed, err := u.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return signed, nil
}

func (u *AuthUsecase) sendWelcome(user *domain.User) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		subject := "Welcome to bookmarks.rocks"
		body := fmt.Sprintf(
			`<p>Hi %s,</p><p>Your account is ready. Start saving bookmarks!</p>`,
			user.Email,
		)
		if err := u.email.Send(ctx, user.Email, subject, body); err != nil {
			u.logger.Warn("send welcome email", "user_id", user.ID, "error", err)
		}
	}()
}
