package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/anonto42/linkup/backend/internal/services"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	posts *services.PostService
}

func NewLikeHandler(posts *services.PostService) *LikeHandler {
	return &LikeHandler{posts: posts}
}

// RegisterLikeRoutes registers like-related routes. PUT and DELETE set the
// state explicitly; POST toggles it.
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.GET("/posts/:id/like", h.GetLikeState)
	g.POST("/posts/:id/like", h.ToggleLike)
	g.PUT("/posts/:id/like", h.LikePost)
	g.DELETE("/posts/:id/like", h.UnlikePost)
}

func (h *LikeHandler) GetLikeState(c echo.Context) error {
	state, err := h.posts.LikeState(c.Request().Context(), getUserIDFromContext(c), c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, state)
}

func (h *LikeHandler) ToggleLike(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	state, err := h.posts.ToggleLike(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, state)
}

func (h *LikeHandler) LikePost(c echo.Context) error {
	return h.setLike(c, true)
}

func (h *LikeHandler) UnlikePost(c echo.Context) error {
	return h.setLike(c, false)
}

func (h *LikeHandler) setLike(c echo.Context, liked bool) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	postID := c.Param("id")
	if err := h.posts.SetLike(ctx, userID, postID, liked); err != nil {
		return mapError(c, err)
	}
	state, err := h.posts.LikeState(ctx, userID, postID)
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, state)
}
