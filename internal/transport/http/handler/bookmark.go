package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bookmarks-rocks/api/internal/domain"
	"github.com/gin-gonic/gin"
)

type bookmarkUsecaser interface {
	List(ctx context.Context, userID string) ([]*domain.Bookmark, error)
	Get(ctx context.Context, userID, id string) (*domain.Bookmark, error)
	Add(ctx context.Context, userID, url string) (*domain.Bookmark, error)
	Delete(ctx context.Context, userID, id string) error
	Refresh(ctx context.Context, userID, id string) (*domain.Bookmark, error)
}

type BookmarkHandler struct {
	bookmarks bookmarkUsecaser
	logger    *slog.Logger
}

func NewBookmarkHandler(bookmarks bookmarkUsecaser, logger *slog.Logger) *BookmarkHandler {
	return &BookmarkHandler{
		bookmarks: bookmarks,
		logger:    logger.With("component", "bookmark_handler"),
	}
}

// GET /bookmarks
func (h *BookmarkHandler) List(c *gin.Context) {
	user := currentUser(c)

	bookmarks, err := h.bookmarks.List(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("list bookmarks", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"errors": []string{errInternalServer}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookmarks": toBookmarkResponses(bookmarks)})
}

// GET /bookmarks/:id
func (h *BookmarkHandler) Get(c *gin.Context) {
	user := currentUser(c)
	id := c.Param("id")

	bookmark, err := h.bookmarks.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, domain.ErrBookmarkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"errors": []string{errNotFound}})
			return
		}
		h.logger.Error("get bookmark", "bookmark_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"errors": []string{errInternalServer}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookmark": toBookmarkResponse(bookmark)})
}

type addBookmarkRequest struct {
	URL string `form:"url" json:"url"`
}

// POST /bookmarks
// Re-adding a previously deleted URL revives the original bookmark.
func (h *BookmarkHandler) Add(c *gin.Context) {
	user := currentUser(c)

	var req addBookmarkRequest
	_ = c.ShouldBind(&req)

	bookmark, err := h.bookmarks.Add(c.Request.Context(), user.ID, req.URL)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidURL) {
			c.JSON(http.StatusBadRequest, gin.H{"errors": []string{errInvalidURL}})
			return
		}
		h.logger.Error("add bookmark", "url", req.URL, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"errors": []string{errInternalServer}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookmark": toBookmarkResponse(bookmark)})
}

// POST /bookmarks/:id/update
// Synchronously re-fetches page metadata for the bookmark.
func (h *BookmarkHandler) Update(c *gin.Context) {
	user := currentUser(c)
	id := c.Param("id")

	bookmark, err := h.bookmarks.Refresh(c.Request.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, domain.ErrBookmarkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"errors": []string{errNotFound}})
			return
		}
		h.logger.Error("refresh bookmark", "bookmark_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"errors": []string{errInternalServer}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookmark": toBookmarkResponse(bookmark)})
}

// DELETE /bookmarks/:id
func (h *BookmarkHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	id := c.Param("id")

	if err := h.bookmarks.Delete(c.Request.Context(), user.ID, id); err != nil {
		if errors.Is(err, domain.ErrBookmarkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"errors": []string{errNotFound}})
			return
		}
		h.logger.Error("delete bookmark", "bookmark_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"errors": []string{errInternalServer}})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}
