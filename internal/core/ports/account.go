package ports

import (
	"context"
	"time"

	"github.com/aishop/storefront/internal/core/domain"
)

// AccountRepository persists contract-server accounts. Emails are unique.
type AccountRepository interface {
	Create(ctx context.Context, a *domain.Account) error
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	Update(ctx context.Context, a *domain.Account) error
}

// WishlistRepository stores the product ids each account has wishlisted.
type WishlistRepository interface {
	List(ctx context.Context, userID string) ([]domain.Identifier, error)
	Add(ctx context.Context, userID string, productID domain.Identifier) error
	Remove(ctx context.Context, userID string, productID domain.Identifier) error
}

// RevocationStore remembers logged-out tokens until they would expire anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// AccountService is the contract server's authentication and profile logic.
type AccountService interface {
	Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthResponse, error)
	Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error)
	ResetPassword(ctx context.Context, email string) error
	Logout(ctx context.Context, token string) error
	Profile(ctx context.Context, userID string) (*domain.UserProfile, error)
	UpdateProfile(ctx context.Context, userID string, in domain.ProfileInput) (*domain.UserProfile, error)
	TokenAuthenticator
}

// TokenAuthenticator resolves a bearer token to the account id it was issued for.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (userID string, err error)
}
