package validators

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/linkup/backend/internal/models"
)

func TestValidate(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&models.SigninRequest{Email: "a@b.co", Password: "x"}))

	err := v.Validate(&models.SignupRequest{Username: "a!", Email: "nope"})
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	msg := he.Message.(string)
	assert.Contains(t, msg, "username must be at least 3 characters")
	assert.Contains(t, msg, "name is required")
	assert.Contains(t, msg, "email must be a valid email")
	assert.Contains(t, msg, "password is required")
}
