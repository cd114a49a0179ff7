package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/anonto42/linkup/backend/internal/services"
)

// BookmarkHandler handles saved post HTTP requests
type BookmarkHandler struct {
	posts *services.PostService
	feed  *services.FeedService
}

func NewBookmarkHandler(posts *services.PostService, feed *services.FeedService) *BookmarkHandler {
	return &BookmarkHandler{posts: posts, feed: feed}
}

// RegisterBookmarkRoutes registers saved post routes
func (h *BookmarkHandler) RegisterBookmarkRoutes(g *echo.Group) {
	g.GET("/bookmarks", h.GetBookmarks)
	g.POST("/posts/:id/bookmark", h.ToggleBookmark)
	g.PUT("/posts/:id/bookmark", h.SavePost)
	g.DELETE("/posts/:id/bookmark", h.UnsavePost)
}

// GetBookmarks pages the caller's saved posts, most recently saved first
func (h *BookmarkHandler) GetBookmarks(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	page, err := h.feed.BookmarkPage(c.Request().Context(), userID, pageParam(c))
	if err != nil {
		return mapError(c, err)
	}
	return pageResponse(c, page)
}

func (h *BookmarkHandler) ToggleBookmark(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	saved, err := h.posts.ToggleBookmark(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, echo.Map{"saved": saved})
}

func (h *BookmarkHandler) SavePost(c echo.Context) error {
	return h.setBookmark(c, true)
}

func (h *BookmarkHandler) UnsavePost(c echo.Context) error {
	return h.setBookmark(c, false)
}

func (h *BookmarkHandler) setBookmark(c echo.Context, saved bool) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := h.posts.SetBookmark(c.Request().Context(), userID, c.Param("id"), saved); err != nil {
		return mapError(c, err)
	}
	return ok(c, echo.Map{"saved": saved})
}
