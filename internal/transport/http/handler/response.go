package handler

import (
	"time"

	"github.com/bookmarks-rocks/api/internal/domain"
)

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email}
}

// bookmarkResponse mirrors the public JSON shape: absent values are
// null, tags default to an empty list, timestamps are strings.
type bookmarkResponse struct {
	ID          string   `json:"id"`
	URL         string   `json:"url"`
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Screenshot  *string  `json:"screenshot"`
	Tags        []string `json:"tags"`
	User        string   `json:"user"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

func toBookmarkResponse(b *domain.Bookmark) bookmarkResponse {
	tags := b.Tags
	if tags == nil {
		tags = []string{}
	}
	return bookmarkResponse{
		ID:          b.ID,
		URL:         b.URL,
		Title:       b.Title,
		Description: b.Description,
		Screenshot:  b.Screenshot,
		Tags:        tags,
		User:        b.UserID,
		CreatedAt:   b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   b.UpdatedAt.Format(time.RFC3339),
	}
}

func toBookmarkResponses(bookmarks []*domain.Bookmark) []bookmarkResponse {
	out := make([]bookmarkResponse, 0, len(bookmarks))
	for _, b := range bookmarks {
		out = append(out, toBookmarkResponse(b))
	}
	return out
}
