package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/bookmarks-rocks/api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL matches the original 86400s token lifetime.
const DefaultTTL = 24 * time.Hour

// Service issues and verifies stateless HS256 tokens. Validity is
// purely a function of signature and expiration; nothing is stored
// server-side.
type Service struct {
	key []byte
	ttl time.Duration
}

func NewService(key []byte, ttl time.Duration) *Service {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Service{key: key, ttl: ttl}
}

// Issue signs a token embedding the user id, expiring at now + ttl.
// ttl <= 0 falls back to the service default; IssueWithTTL exists for
// callers that need an explicit lifetime.
func (s *Service) Issue(userID string) (string, error) {
	return s.IssueWithTTL(userID, s.ttl)
}

func (s *Service) IssueWithTTL(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the embedded user id. Expired tokens yield
// domain.ErrTokenExpired; anything tampered or malformed yields
// domain.ErrTokenInvalid.
func (s *Service) Verify(raw string) (string, error) {
	t, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrTokenInvalid
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrTokenInvalid
	}
	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return "", domain.ErrTokenInvalid
	}
	return userID, nil
}
