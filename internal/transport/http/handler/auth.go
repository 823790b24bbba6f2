package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bookmarks-rocks/api/internal/domain"
	"github.com/bookmarks-rocks/api/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Register(ctx context.Context, email, password string) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type AuthHandler struct {
	authUsecase authUsecaser
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		logger:      logger.With("component", "auth_handler"),
	}
}

// credentialsRequest accepts both form-encoded and JSON bodies.
type credentialsRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

func (r *credentialsRequest) missingFields() []string {
	var errs []string
	if r.Email == "" {
		errs = append(errs, errEmailRequired)
	}
	if r.Password == "" {
		errs = append(errs, errPasswordRequired)
	}
	return errs
}

// POST /users
// Returns {"user": {...}, "token": "..."} on success.
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	_ = c.ShouldBind(&req)

	if errs := req.missingFields(); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	user, token, err := h.authUsecase.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"errors": []string{errInvalidEmail}})
		case errors.Is(err, domain.ErrPasswordTooShort):
			c.JSON(http.StatusBadRequest, gin.H{"errors": []string{errPasswordTooShort}})
		case errors.Is(err, domain.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"errors": []string{errEmailTaken}})
		default:
			h.logger.Error("register", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"errors": []string{errInternalServer}})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user), "token": token})
}

// POST /users/token
// Returns {"token": "..."} on success, 401 {"errors": ["Invalid login"]}
// on any credential failure.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	_ = c.ShouldBind(&req)

	if errs := req.missingFields(); len(errs) > 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"errors": errs})
		return
	}

	token, err := h.authUsecase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidLogin) {
			c.JSON(http.StatusUnauthorized, gin.H{"errors": []string{errInvalidLogin}})
			return
		}
		h.logger.Error("login", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"errors": []string{errInternalServer}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// GET /users/me
func (h *AuthHandler) Me(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"errors": []string{"Invalid or missing token"}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

// currentUser pulls the user resolved by the auth middleware.
func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}
