package apiclient

import (
	"context"
	"net/http"

	"github.com/aishop/storefront/internal/core/domain"
)

// AuthAPI talks to /auth.
type AuthAPI struct {
	c *Client
}

func NewAuthAPI(c *Client) *AuthAPI {
	return &AuthAPI{c: c}
}

func (a *AuthAPI) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	err := a.c.Do(ctx, &Request{Op: "auth.login", Method: http.MethodPost, Path: "/auth/login", Body: creds, Anonymous: true}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *AuthAPI) Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	err := a.c.Do(ctx, &Request{Op: "auth.register", Method: http.MethodPost, Path: "/auth/register", Body: in, Anonymous: true}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *AuthAPI) ResetPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return a.c.Do(ctx, &Request{Op: "auth.reset_password", Method: http.MethodPost, Path: "/auth/reset-password", Body: body, Anonymous: true}, nil)
}

func (a *AuthAPI) Validate(ctx context.Context) (*domain.UserResponse, error) {
	var resp domain.UserResponse
	if err := a.c.Do(ctx, &Request{Op: "auth.validate", Method: http.MethodGet, Path: "/auth/validate"}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *AuthAPI) Logout(ctx context.Context, token string) error {
	return a.c.Do(ctx, &Request{Op: "auth.logout", Method: http.MethodPost, Path: "/auth/logout", Token: token}, nil)
}
