package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/linkup/backend/internal/services"
	"github.com/anonto42/linkup/backend/internal/timeline"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not authenticated", services.ErrNotAuthenticated, http.StatusUnauthorized},
		{"wrapped not found", fmt.Errorf("post abc: %w", services.ErrNotFound), http.StatusNotFound},
		{"forbidden", services.ErrForbidden, http.StatusForbidden},
		{"not participant", services.ErrNotParticipant, http.StatusForbidden},
		{"conflict", services.ErrConflict, http.StatusConflict},
		{"busy", timeline.ErrBusy, http.StatusConflict},
		{"self follow", services.ErrSelfFollow, http.StatusBadRequest},
		{"too large", services.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"unsupported", fmt.Errorf("text/plain: %w", services.ErrUnsupportedType), http.StatusUnsupportedMediaType},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
			var he *echo.HTTPError
			require.ErrorAs(t, mapError(c, tt.err), &he)
			assert.Equal(t, tt.want, he.Code)
		})
	}
}

func TestUnknownErrorHidesDetails(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	var he *echo.HTTPError
	require.ErrorAs(t, mapError(c, errors.New("dial tcp 10.0.0.5:5432")), &he)
	assert.Equal(t, "Internal server error", he.Message)
}

func TestPageParam(t *testing.T) {
	e := echo.New()
	for q, want := range map[string]int{"": 0, "page=3": 3, "page=-1": 0, "page=x": 0} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/feed?"+q, nil), httptest.NewRecorder())
		assert.Equal(t, want, pageParam(c), q)
	}
}
