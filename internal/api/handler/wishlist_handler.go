package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aishop/storefront/internal/core/domain"
	"github.com/aishop/storefront/internal/core/ports"
)

type WishlistHandler struct {
	repo ports.WishlistRepository
}

func NewWishlistHandler(repo ports.WishlistRepository) *WishlistHandler {
	return &WishlistHandler{repo: repo}
}

func (h *WishlistHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	return h.respond(c, userID)
}

func (h *WishlistHandler) Add(c echo.Context) error {
	userID, productID, err := h.target(c)
	if err != nil {
		return err
	}
	if err := h.repo.Add(c.Request().Context(), userID, productID); err != nil {
		return err
	}
	return h.respond(c, userID)
}

func (h *WishlistHandler) Remove(c echo.Context) error {
	userID, productID, err := h.target(c)
	if err != nil {
		return err
	}
	if err := h.repo.Remove(c.Request().Context(), userID, productID); err != nil {
		return err
	}
	return h.respond(c, userID)
}

func (h *WishlistHandler) target(c echo.Context) (string, domain.Identifier, error) {
	userID, err := ctxUserID(c)
	if err != nil {
		return "", "", err
	}
	productID := strings.TrimSpace(c.Param("productId"))
	if productID == "" {
		return "", "", domain.NewValidationError("product id is required")
	}
	return userID, domain.Identifier(productID), nil
}

func (h *WishlistHandler) respond(c echo.Context, userID string) error {
	ids, err := h.repo.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, domain.WishlistResponse{Wishlist: ids})
}
