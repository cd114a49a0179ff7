package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/services"
)

// MessageHandler serves direct conversations and post sharing.
type MessageHandler struct {
	messaging *services.MessagingService
}

func NewMessageHandler(messaging *services.MessagingService) *MessageHandler {
	return &MessageHandler{messaging: messaging}
}

func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.GET("/conversations", h.ListConversations)
	g.POST("/conversations", h.StartConversation)
	g.GET("/conversations/:id/messages", h.GetMessages)
	g.POST("/conversations/:id/messages", h.SendMessage)
	g.GET("/share-targets", h.ShareTargets)
	g.POST("/posts/:id/share", h.SharePost)
}

// ListConversations returns the caller's conversations, most recently active first
func (h *MessageHandler) ListConversations(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	list, err := h.messaging.ListConversations(c.Request().Context(), userID)
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, echo.Map{"conversations": list})
}

// StartConversation opens the two-party conversation with user_id, reusing
// an existing one.
func (h *MessageHandler) StartConversation(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	var req models.StartConversationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	view, isNew, err := h.messaging.StartConversation(c.Request().Context(), userID, req.UserID)
	if err != nil {
		return mapError(c, err)
	}
	status := http.StatusOK
	if isNew {
		status = http.StatusCreated
	}
	return c.JSON(status, echo.Map{"success": true, "data": echo.Map{"conversation": view}})
}

func (h *MessageHandler) GetMessages(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	convID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	msgs, err := h.messaging.Messages(c.Request().Context(), userID, convID)
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, echo.Map{"messages": msgs})
}

func (h *MessageHandler) SendMessage(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	convID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req models.SendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	msg, err := h.messaging.SendMessage(c.Request().Context(), userID, convID, req)
	if err != nil {
		return mapError(c, err)
	}
	return created(c, echo.Map{"message": msg})
}

// ShareTargets lists the people the caller can share a post with
func (h *MessageHandler) ShareTargets(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	targets, err := h.messaging.ShareTargets(c.Request().Context(), userID)
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, echo.Map{"targets": targets})
}

// SharePost sends the post into one of the caller's conversations
func (h *MessageHandler) SharePost(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	var req models.SharePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	msg, err := h.messaging.SharePost(c.Request().Context(), userID, c.Param("id"), req.ConversationID)
	if err != nil {
		return mapError(c, err)
	}
	return created(c, echo.Map{"message": msg})
}
