package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/bookmarks-rocks/api/internal/domain"
	"github.com/bookmarks-rocks/api/internal/transport/http/handler"
	"github.com/bookmarks-rocks/api/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

type fakeBookmarkUsecase struct {
	list    func(ctx context.Context, userID string) ([]*domain.Bookmark, error)
	get     func(ctx context.Context, userID, id string) (*domain.Bookmark, error)
	add     func(ctx context.Context, userID, url string) (*domain.Bookmark, error)
	del     func(ctx context.Context, userID, id string) error
	refresh func(ctx context.Context, userID, id string) (*domain.Bookmark, error)
}

func (f *fakeBookmarkUsecase) List(ctx context.Context, userID string) ([]*domain.Bookmark, error) {
	return f.list(ctx, userID)
}

func (f *fakeBookmarkUsecase) Get(ctx context.Context, userID, id string) (*domain.Bookmark, error) {
	return f.get(ctx, userID, id)
}

func (f *fakeBookmarkUsecase) Add(ctx context.Context, userID, url string) (*domain.Bookmark, error) {
	return f.add(ctx, userID, url)
}

func (f *fakeBookmarkUsecase) Delete(ctx context.Context, userID, id string) error {
	return f.del(ctx, userID, id)
}

func (f *fakeBookmarkUsecase) Refresh(ctx context.Context, userID, id string) (*domain.Bookmark, error) {
	return f.refresh(ctx, userID, id)
}

const testUserID = "5a0ddf2e-7a7d-4f0c-9c9d-111111111111"

func newBookmarkEngine(uc *fakeBookmarkUsecase) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	h := handler.NewBookmarkHandler(uc, logger)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserKey, &domain.User{ID: testUserID, Email: "owner@test.local"})
		c.Next()
	})
	r.GET("/bookmarks", h.List)
	r.POST("/bookmarks", h.Add)
	r.GET("/bookmarks/:id", h.Get)
	r.POST("/bookmarks/:id/update", h.Update)
	r.DELETE("/bookmarks/:id", h.Delete)
	return r
}

func testBookmark(id string) *domain.Bookmark {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Bookmark{
		ID:        id,
		UserID:    testUserID,
		URL:       "https://example.com/a",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ---- List ----

func TestList_Empty_ReturnsEmptyArray(t *testing.T) {
	uc := &fakeBookmarkUsecase{
		list: func(_ context.Context, _ string) ([]*domain.Bookmark, error) {
			return nil, nil
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bookmarks", nil)
	newBookmarkEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"bookmarks":[]}` {
		t.Errorf("body = %q, want empty bookmarks array", got)
	}
}

func TestList_ScopesToCurrentUser(t *testing.T) {
	var gotUserID string
	uc := &fakeBookmarkUsecase{
		list: func(_ context.Context, userID string) ([]*domain.Bookmark, error) {
			gotUserID = userID
			return []*domain.Bookmark{testBookmark("bm-1")}, nil
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bookmarks", nil)
	newBookmarkEngine(uc).ServeHTTP(w, req)

	if gotUserID != testUserID {
		t.Errorf("usecase called with userID %q, want %q", gotUserID, testUserID)
	}
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestList_NullFieldsSerializeAsNull(t *testing.T) {
	uc := &fakeBookmarkUsecase{
		list: func(_ context.Context, _ string) ([]*domain.Bookmark, error) {
			return []*domain.Bookmark{testBookmark("bm-1")}, nil
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bookmarks", nil)
	newBookmarkEngine(uc).ServeHTTP(w, req)

	var body struct {
		Bookmarks []map[string]json.RawMessage `json:"bookmarks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.Bookmarks) != 1 {
		t.Fatalf("got %d bookmarks, want 1", len(body.Bookmarks))
	}
	b := body.Bookmarks[0]
	if string(b["title"]) != "null" {
		t.Errorf("title = %s, want null", b["title"])
	}
	if string(b["tags"]) != "[]" {
		t.Errorf("tags = %s, want []", b["tags"])
	}
	if string(b["user"]) != `"`+testUserID+`"` {
		t.Errorf("user = %s, want owner id", b["user"])
	}
}

// ---- Get ----

func TestGet_NotFound_Returns404(t *testing.T) {
	uc := &fakeBookmarkUsecase{
		get: func(_ context.Context, _, _ string) (*domain.Bookmark, error) {
			return nil, domain.ErrBookmarkNotFound
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bookmarks/bm-404", nil)
	newBookmarkEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Not Found") {
		t.Errorf("body = %q, want Not Found", w.Body.String())
	}
}

func TestGet_Success_Returns200(t *testing.T) {
	uc := &fakeBookmarkUsecase{
		get: func(_ context.Context, _, id string) (*domain.Bookmark, error) {
			return testBookmark(id), nil
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bookmarks/bm-1", nil)
	newBookmarkEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"bm-1"`) {
		t.Errorf("body = %q, want bookmark id", w.Body.String())
	}
}

// ---- Add ----

func TestAdd_InvalidURL_Returns400(t *testing.T) {
	uc := &fakeBookmarkUsecase{
		add: func(_ context.Context, _, _ string) (*domain.Bookmark, error) {
			return nil, domain.ErrInvalidURL
		},
	}
	w := postJSON(newBookmarkEngine(uc), "/bookmarks", `{"url":"abc"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid bookmark url") {
		t.Errorf("body = %q, want Invalid bookmark url", w.Body.String())
	}
}

func TestAdd_Success_ReturnsBookmark(t *testing.T) {
	uc := &fakeBookmarkUsecase{
		add: func(_ context.Context, _, url string) (*domain.Bookmark, error) {
			b := testBookmark("bm-new")
			b.URL = url
			return b, nil
		},
	}
	w := postJSON(newBookmarkEngine(uc), "/bookmarks", `{"url":"https://example.com/new"}`)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "https://example.com/new") {
		t.Errorf("body = %q, want bookmark url", w.Body.String())
	}
}

func TestAdd_InternalError_Returns500(t *testing.T) {
	uc := &fakeBookmarkUsecase{
		add: func(_ context.Context, _, _ string) (*domain.Bookmark, error) {
			return nil, errors.New("db down")
		},
	}
	w := postJSON(newBookmarkEngine(uc), "/bookmarks", `{"url":"https://example.com"}`)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

// ---- Update ----

func TestUpdate_NotFound_Returns404(t *testing.T) {
	uc := &fakeBookmarkUsecase{
		refresh: func(_ context.Context, _, _ string) (*domain.Bookmark, error) {
			return nil, domain.ErrBookmarkNotFound
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bookmarks/bm-404/update", nil)
	newBookmarkEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestUpdate_Success_ReturnsRefreshedBookmark(t *testing.T) {
	title := "Example Title"
	uc := &fakeBookmarkUsecase{
		refresh: func(_ context.Context, _, id string) (*domain.Bookmark, error) {
			b := testBookmark(id)
			b.Title = &title
			return b, nil
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bookmarks/bm-1/update", nil)
	newBookmarkEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), title) {
		t.Errorf("body = %q, want refreshed title", w.Body.String())
	}
}

// ---- Delete ----

func TestDelete_NotFound_Returns404(t *testing.T) {
	uc := &fakeBookmarkUsecase{
		del: func(_ context.Context, _, _ string) error {
			return domain.ErrBookmarkNotFound
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/bookmarks/bm-404", nil)
	newBookmarkEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDelete_Success_ReturnsEmptyObject(t *testing.T) {
	uc := &fakeBookmarkUsecase{
		del: func(_ context.Context, _, _ string) error { return nil },
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/bookmarks/bm-1", nil)
	newBookmarkEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "{}" {
		t.Errorf("body = %q, want {}", got)
	}
}
