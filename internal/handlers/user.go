package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/services"
)

// UserHandler serves profile pages and profile edits.
type UserHandler struct {
	profiles *services.ProfileService
}

func NewUserHandler(profiles *services.ProfileService) *UserHandler {
	return &UserHandler{profiles: profiles}
}

// RegisterProfileRoutes registers profile routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/users/me", h.GetMe)
	g.PUT("/users/me", h.UpdateMe)
	g.DELETE("/users/me", h.DeleteMe)
	g.GET("/users/:id", h.GetProfile)
	g.GET("/users/by-username/:username", h.GetProfileByUsername)
}

func (h *UserHandler) GetMe(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	user, err := h.profiles.Me(c.Request().Context(), userID)
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, echo.Map{"user": user.ToProfile(), "email": user.Email})
}

func (h *UserHandler) UpdateMe(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	var req models.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.profiles.Update(c.Request().Context(), userID, req)
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, echo.Map{"user": user.ToProfile()})
}

func (h *UserHandler) DeleteMe(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := h.profiles.Delete(c.Request().Context(), userID); err != nil {
		return mapError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetProfile returns a profile page: profile, counts, follow state and the
// first page of posts.
func (h *UserHandler) GetProfile(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	page, err := h.profiles.ByID(c.Request().Context(), getUserIDFromContext(c), id)
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, page)
}

func (h *UserHandler) GetProfileByUsername(c echo.Context) error {
	page, err := h.profiles.ByUsername(c.Request().Context(), getUserIDFromContext(c), c.Param("username"))
	if err != nil {
		return mapError(c, err)
	}
	return ok(c, page)
}
