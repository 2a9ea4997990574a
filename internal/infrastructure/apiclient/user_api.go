package apiclient

import (
	"context"
	"net/http"

	"github.com/aishop/storefront/internal/core/domain"
)

// UserAPI talks to /users.
type UserAPI struct {
	c *Client
}

func NewUserAPI(c *Client) *UserAPI {
	return &UserAPI{c: c}
}

func (u *UserAPI) Profile(ctx context.Context) (*domain.UserResponse, error) {
	var resp domain.UserResponse
	if err := u.c.Do(ctx, &Request{Op: "users.profile", Method: http.MethodGet, Path: "/users/profile"}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (u *UserAPI) UpdateProfile(ctx context.Context, in domain.ProfileInput) (*domain.UserResponse, error) {
	var resp domain.UserResponse
	err := u.c.Do(ctx, &Request{Op: "users.update_profile", Method: http.MethodPut, Path: "/users/profile", Body: in}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
