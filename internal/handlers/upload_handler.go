package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/linkup/backend/internal/services"
)

type UploadHandler struct {
	uploads *services.UploadService
}

func NewUploadHandler(uploads *services.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

func (h *UploadHandler) RegisterUploadRoutes(g *echo.Group) {
	g.POST("/uploads/:bucket", h.Upload)
}

// Upload stores the multipart "file" field in the named bucket and returns
// its public URL.
func (h *UploadHandler) Upload(c echo.Context) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing file field")
	}
	if fh.Size > services.MaxUploadSize {
		return mapError(c, services.ErrFileTooLarge)
	}
	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Unreadable file")
	}
	defer f.Close()

	// One byte past the limit is enough to tell an oversized body.
	data, err := io.ReadAll(io.LimitReader(f, services.MaxUploadSize+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Unreadable file")
	}

	up, err := h.uploads.Upload(c.Request().Context(), userID, c.Param("bucket"), data)
	if err != nil {
		if errors.Is(err, services.ErrStorageUnavailable) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "File storage is not configured")
		}
		return mapError(c, err)
	}
	return created(c, up)
}
