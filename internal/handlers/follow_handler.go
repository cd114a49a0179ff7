package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/anonto42/linkup/backend/internal/services"
)

// FollowHandler handles follow-related HTTP requests
type FollowHandler struct {
	follows *services.FollowService
}

func NewFollowHandler(follows *services.FollowService) *FollowHandler {
	return &FollowHandler{follows: follows}
}

// RegisterFollowRoutes registers follow routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.ToggleFollow)
	g.PUT("/users/:id/follow", h.FollowUser)
	g.DELETE("/users/:id/follow", h.UnfollowUser)
	g.GET("/users/:id/follow", h.FollowStatus)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
}

func (h *FollowHandler) ToggleFollow(c echo.Context) error {
	userID, targetID, err := h.pair(c)
	if err != nil {
		return err
	}
	following, err := h.follows.Toggle(c.Request().Context(), userID, targetID)
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, echo.Map{"following": following})
}

// FollowUser follows a user; following twice is not an error
func (h *FollowHandler) FollowUser(c echo.Context) error {
	userID, targetID, err := h.pair(c)
	if err != nil {
		return err
	}
	if err := h.follows.Follow(c.Request().Context(), userID, targetID); err != nil {
		return mapError(c, err)
	}
	return ok(c, echo.Map{"following": true})
}

// UnfollowUser unfollows a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	userID, targetID, err := h.pair(c)
	if err != nil {
		return err
	}
	if err := h.follows.Unfollow(c.Request().Context(), userID, targetID); err != nil {
		return mapError(c, err)
	}
	return ok(c, echo.Map{"following": false})
}

func (h *FollowHandler) FollowStatus(c echo.Context) error {
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	following, err := h.follows.IsFollowing(ctx, getUserIDFromContext(c), targetID)
	if err != nil {
		return mapError(c, err)
	}
	stats, err := h.follows.Stats(ctx, targetID)
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, echo.Map{"following": following, "stats": stats})
}

func (h *FollowHandler) GetFollowers(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	users, err := h.follows.Followers(c.Request().Context(), id)
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, echo.Map{"users": users})
}

func (h *FollowHandler) GetFollowing(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	users, err := h.follows.Following(c.Request().Context(), id)
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, echo.Map{"users": users})
}

func (h *FollowHandler) pair(c echo.Context) (userID, targetID uint, err error) {
	if userID, err = requireUser(c); err != nil {
		return 0, 0, err
	}
	if targetID, err = parseIDParam(c, "id"); err != nil {
		return 0, 0, err
	}
	return userID, targetID, nil
}
