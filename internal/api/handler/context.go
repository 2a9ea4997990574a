package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aishop/storefront/internal/api/middleware"
)

// ctxUserID extracts the account id injected by the Auth middleware. Its
// absence means the route was mounted without the middleware.
func ctxUserID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.UserIDKey).(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}

func ctxToken(c echo.Context) string {
	token, _ := c.Get(middleware.TokenKey).(string)
	return token
}

// bindAndValidate decodes the JSON body into req and runs its validation tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}

type messageResponse struct {
	Message string `json:"message"`
}
