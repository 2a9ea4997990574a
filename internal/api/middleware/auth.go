package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aishop/storefront/internal/core/ports"
)

// Context keys set by Auth.
const (
	UserIDKey = "user_id"
	TokenKey  = "token"
)

// Auth validates the bearer token and injects the account id into context.
func Auth(tokens ports.TokenAuthenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			userID, err := tokens.Authenticate(c.Request().Context(), parts[1])
			if err != nil {
				return err
			}

			c.Set(UserIDKey, userID)
			c.Set(TokenKey, parts[1])
			return next(c)
		}
	}
}
