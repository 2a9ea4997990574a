package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/aishop/storefront/internal/core/domain"
)

// WishlistAPI talks to /wishlist.
type WishlistAPI struct {
	c *Client
}

func NewWishlistAPI(c *Client) *WishlistAPI {
	return &WishlistAPI{c: c}
}

func (w *WishlistAPI) List(ctx context.Context) (*domain.WishlistResponse, error) {
	var resp domain.WishlistResponse
	if err := w.c.Do(ctx, &Request{Op: "wishlist.list", Method: http.MethodGet, Path: "/wishlist"}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (w *WishlistAPI) Add(ctx context.Context, productID domain.Identifier) error {
	return w.c.Do(ctx, &Request{Op: "wishlist.add", Method: http.MethodPost, Path: itemPath(productID)}, nil)
}

func (w *WishlistAPI) Remove(ctx context.Context, productID domain.Identifier) error {
	return w.c.Do(ctx, &Request{Op: "wishlist.remove", Method: http.MethodDelete, Path: itemPath(productID)}, nil)
}

func itemPath(id domain.Identifier) string {
	return "/wishlist/" + url.PathEscape(id.String())
}
