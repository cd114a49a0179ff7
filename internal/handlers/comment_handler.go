package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/services"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.GET("/posts/:post_id/comments", h.GetThread)
	g.POST("/posts/:post_id/comments", h.CreateComment)
	g.PUT("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// GetThread returns the post's comments as a reply tree
func (h *CommentHandler) GetThread(c echo.Context) error {
	thread, err := h.comments.Thread(c.Request().Context(), c.Param("post_id"))
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, thread)
}

// CreateComment adds a comment, or a reply when parent_comment_id is set
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	comment, err := h.comments.Add(c.Request().Context(), userID, c.Param("post_id"), req)
	if err != nil {
		return mapError(c, err)
	}
	return created(c, echo.Map{"comment": comment})
}

// UpdateComment updates an existing comment owned by the caller
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	commentID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req models.UpdateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	comment, err := h.comments.Update(c.Request().Context(), userID, commentID, req)
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, echo.Map{"comment": comment})
}

// DeleteComment deletes a comment owned by the caller
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	commentID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.comments.Delete(c.Request().Context(), userID, commentID); err != nil {
		return mapError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
