package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/services"
)

type GroupChatHandler struct {
	messaging *services.MessagingService
}

func NewGroupChatHandler(messaging *services.MessagingService) *GroupChatHandler {
	return &GroupChatHandler{messaging: messaging}
}

func (h *GroupChatHandler) RegisterGroupChatRoutes(g *echo.Group) {
	g.GET("/groups", h.ListGroups)
	g.POST("/groups", h.CreateGroup)
	g.POST("/groups/:id/members", h.AddMember)
	g.GET("/groups/:id/messages", h.GetMessages)
	g.POST("/groups/:id/messages", h.SendMessage)
}

func (h *GroupChatHandler) ListGroups(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	groups, err := h.messaging.ListGroupChats(c.Request().Context(), userID)
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, echo.Map{"groups": groups})
}

// CreateGroup creates a group with the caller as admin
func (h *GroupChatHandler) CreateGroup(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	var req models.CreateGroupChatRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	group, err := h.messaging.CreateGroupChat(c.Request().Context(), userID, req)
	if err != nil {
		return mapError(c, err)
	}
	return created(c, echo.Map{"group": group})
}

// AddMember adds a user to the group; only admins may do this
func (h *GroupChatHandler) AddMember(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	groupID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req models.AddGroupMemberRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.messaging.AddGroupMember(c.Request().Context(), userID, groupID, req.UserID); err != nil {
		return mapError(c, err)
	}
	return ok(c, echo.Map{"added": req.UserID})
}

func (h *GroupChatHandler) GetMessages(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	groupID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	msgs, err := h.messaging.GroupMessages(c.Request().Context(), userID, groupID)
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, echo.Map{"messages": msgs})
}

func (h *GroupChatHandler) SendMessage(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	groupID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req models.SendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	msg, err := h.messaging.SendGroupMessage(c.Request().Context(), userID, groupID, req)
	if err != nil {
		return mapError(c, err)
	}
	return created(c, echo.Map{"message": msg})
}
