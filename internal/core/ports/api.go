package ports

import (
	"context"

	"github.com/aishop/storefront/internal/core/domain"
)

// AuthAPI is the client contract with the remote /auth endpoints.
type AuthAPI interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error)
	Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthResponse, error)
	ResetPassword(ctx context.Context, email string) error
	Validate(ctx context.Context) (*domain.UserResponse, error)
	// Logout revokes token server-side. The token is passed explicitly because
	// local state is cleared before the call is made.
	Logout(ctx context.Context, token string) error
}

// UserAPI is the client contract with the remote /users endpoints.
type UserAPI interface {
	Profile(ctx context.Context) (*domain.UserResponse, error)
	UpdateProfile(ctx context.Context, in domain.ProfileInput) (*domain.UserResponse, error)
}

// WishlistAPI is the client contract with the remote /wishlist endpoints.
type WishlistAPI interface {
	List(ctx context.Context) (*domain.WishlistResponse, error)
	Add(ctx context.Context, productID domain.Identifier) error
	Remove(ctx context.Context, productID domain.Identifier) error
}

// UnauthenticatedNotifier emits a signal whenever an authorized request is
// rejected with 401.
type UnauthenticatedNotifier interface {
	OnUnauthenticated(fn func(ctx context.Context))
}
