package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/services"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	feed *services.FeedService
}

func NewFeedHandler(feed *services.FeedService) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns one enriched page of the feed, newest first. Pages are
// zero-based.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	page, err := h.feed.Page(c.Request().Context(), getUserIDFromContext(c), pageParam(c))
	if err != nil {
		return mapError(c, err)
	}
	return pageResponse(c, page)
}

func pageResponse(c echo.Context, page *services.FeedPage) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"posts": page.Posts,
		},
		"meta": echo.Map{
			"currentPage":  page.Page,
			"itemsPerPage": models.PostsPerPage,
			"hasNextPage":  page.HasMore,
		},
	})
}
