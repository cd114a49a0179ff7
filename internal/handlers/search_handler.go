package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/anonto42/linkup/backend/internal/services"
)

// SearchHandler serves user/post search and hashtag pages.
type SearchHandler struct {
	search   *services.SearchService
	hashtags *services.HashtagService
}

func NewSearchHandler(search *services.SearchService, hashtags *services.HashtagService) *SearchHandler {
	return &SearchHandler{search: search, hashtags: hashtags}
}

func (h *SearchHandler) RegisterSearchRoutes(g *echo.Group) {
	g.GET("/search", h.Search)
	g.GET("/hashtags/:tag", h.GetHashtag)
}

// Search matches ?q= against people and posts. A blank query returns empty
// lists.
func (h *SearchHandler) Search(c echo.Context) error {
	res, err := h.search.Search(c.Request().Context(), getUserIDFromContext(c), c.QueryParam("q"))
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, res)
}

func (h *SearchHandler) GetHashtag(c echo.Context) error {
	page, err := h.hashtags.Page(c.Request().Context(), getUserIDFromContext(c), c.Param("tag"))
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, page)
}
