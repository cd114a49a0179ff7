package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/anonto42/linkup/backend/internal/services"
	"github.com/anonto42/linkup/backend/internal/timeline"
	"github.com/anonto42/linkup/backend/pkg/logger"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{services.ErrNotAuthenticated, http.StatusUnauthorized},
	{services.ErrInvalidCredentials, http.StatusUnauthorized},
	{services.ErrForbidden, http.StatusForbidden},
	{services.ErrNotParticipant, http.StatusForbidden},
	{services.ErrNotFound, http.StatusNotFound},
	{services.ErrParentNotFound, http.StatusNotFound},
	{services.ErrConflict, http.StatusConflict},
	{timeline.ErrBusy, http.StatusConflict},
	{services.ErrSelfFollow, http.StatusBadRequest},
	{services.ErrSelfConversation, http.StatusBadRequest},
	{services.ErrEmptyContent, http.StatusBadRequest},
	{services.ErrUnknownBucket, http.StatusBadRequest},
	{services.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
	{services.ErrUnsupportedType, http.StatusUnsupportedMediaType},
	{services.ErrStorageUnavailable, http.StatusServiceUnavailable},
}

// mapError turns a service error into an HTTP error. Unknown errors are
// logged and reported as 500 without their details.
func mapError(c echo.Context, err error) error {
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			return echo.NewHTTPError(m.status, err.Error())
		}
	}
	logger.FromContext(c.Request().Context()).Error("request failed",
		zap.String("path", c.Path()), zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}
