package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aishop/storefront/internal/core/domain"
	"github.com/aishop/storefront/internal/core/ports"
)

type AuthHandler struct {
	accounts ports.AccountService
}

func NewAuthHandler(accounts ports.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

type resetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Register creates an account and signs it in.
//
//	POST /api/auth/register  {"name","email","password"} → 201 {"token","user"}
func (h *AuthHandler) Register(c echo.Context) error {
	var req domain.RegisterInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.accounts.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login exchanges credentials for a bearer token.
//
//	POST /api/auth/login  {"email","password"} → 200 {"token","user"}
func (h *AuthHandler) Login(c echo.Context) error {
	var req domain.Credentials
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.accounts.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.accounts.ResetPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "If the address is registered, a reset link has been sent."})
}

// Validate returns the profile behind the bearer token.
func (h *AuthHandler) Validate(c echo.Context) error {
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

// Logout revokes the bearer token.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.accounts.Logout(c.Request().Context(), ctxToken(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out"})
}
