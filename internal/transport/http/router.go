package httptransport

import (
	"log/slog"

	"github.com/bookmarks-rocks/api/internal/repository"
	"github.com/bookmarks-rocks/api/internal/transport/http/handler"
	"github.com/bookmarks-rocks/api/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

// tokenVerifier matches token.Service; declared here so the router can
// be built against a fake in tests.
type tokenVerifier interface {
	Verify(raw string) (string, error)
}

func NewRouter(
	logger *slog.Logger,
	authHandler *handler.AuthHandler,
	bookmarkHandler *handler.BookmarkHandler,
	tokens tokenVerifier,
	userRepo repository.UserRepository,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(middleware.CORS())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authMW := middleware.Auth(tokens, userRepo)

	// Public user routes
	r.POST("/users", authHandler.Register)
	r.POST("/users/token", authHandler.Login)
	r.GET("/users/me", authMW, authHandler.Me)

	// Protected bookmark routes
	bookmarks := r.Group("/bookmarks", authMW)
	bookmarks.GET("", bookmarkHandler.List)
	bookmarks.POST("", bookmarkHandler.Add)
	bookmarks.GET("/:id", bookmarkHandler.Get)
	bookmarks.POST("/:id/update", bookmarkHandler.Update)
	bookmarks.DELETE("/:id", bookmarkHandler.Delete)

	return r
}
