package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/linkup/backend/internal/models"
)

// FirebaseResolver maps a Firebase ID token to a local account.
type FirebaseResolver interface {
	FirebaseUser(ctx context.Context, idToken string) (*models.User, error)
}

// FirebaseAuthMiddleware authenticates requests carrying a Firebase ID token
// instead of a locally issued JWT.
func FirebaseAuthMiddleware(resolver FirebaseResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			idToken, err := bearerToken(c)
			if err != nil {
				return err
			}

			user, err := resolver.FirebaseUser(c.Request().Context(), idToken)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
			}

			c.Set(userIDKey, user.ID)
			c.Set("firebaseUID", user.FirebaseUID)
			return next(c)
		}
	}
}
