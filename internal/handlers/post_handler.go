package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/services"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	posts *services.PostService
	feed  *services.FeedService
}

func NewPostHandler(posts *services.PostService, feed *services.FeedService) *PostHandler {
	return &PostHandler{posts: posts, feed: feed}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.GET("/users/:id/posts", h.GetUserPosts)
}

// CreatePost creates a new post and links its hashtags
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	post, err := h.posts.Create(c.Request().Context(), userID, req)
	if err != nil {
		return mapError(c, err)
	}
	return created(c, echo.Map{"post": post})
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.posts.Get(c.Request().Context(), getUserIDFromContext(c), c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, echo.Map{"post": post})
}

// UpdatePost updates an existing post owned by the caller
func (h *PostHandler) UpdatePost(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	var req models.UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	post, err := h.posts.Update(c.Request().Context(), userID, c.Param("id"), req)
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, echo.Map{"post": post})
}

// DeletePost deletes a post owned by the caller
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := h.posts.Delete(c.Request().Context(), userID, c.Param("id")); err != nil {
		return mapError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetUserPosts pages one author's posts
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	authorID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	page, err := h.feed.UserPage(c.Request().Context(), getUserIDFromContext(c), authorID, pageParam(c))
	if err != nil {
		return mapError(c, err)
	}
	return pageResponse(c, page)
}
