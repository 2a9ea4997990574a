package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aishop/storefront/internal/core/domain"
	"github.com/aishop/storefront/internal/core/ports"
)

type UserHandler struct {
	accounts ports.AccountService
}

func NewUserHandler(accounts ports.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

func (h *UserHandler) Profile(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.accounts.Profile(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.UserResponse{User: user})
}

// UpdateProfile applies the non-empty fields of the body.
//
//	PUT /api/users/profile  {"name"?, "email"?} → 200 {"user"}
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req domain.ProfileInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.UpdateProfile(c.Request().Context(), userID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.UserResponse{User: user})
}
