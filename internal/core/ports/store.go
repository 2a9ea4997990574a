package ports

import (
	"context"

	"github.com/aishop/storefront/internal/core/domain"
)

// KVBackend is a raw string key-value store that survives process restarts.
// Get reports ok=false when the key is absent.
type KVBackend interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// TokenStore holds the persisted bearer token. An empty token means none.
type TokenStore interface {
	Token(ctx context.Context) string
	SaveToken(ctx context.Context, token string)
	ClearToken(ctx context.Context)
}

// Reloader is a consumer of persisted state that can rebuild itself from the
// store, the equivalent of a full page reload.
type Reloader interface {
	Reload(ctx context.Context)
}

// RecentlyViewedStore persists the recently-viewed list.
type RecentlyViewedStore interface {
	// RecentlyViewed returns the stored list, or fallback when nothing
	// usable is stored.
	RecentlyViewed(ctx context.Context, fallback []domain.Product) []domain.Product
	SaveRecentlyViewed(ctx context.Context, list []domain.Product)
}

// ThemeStore persists the dark-mode preference.
type ThemeStore interface {
	DarkMode(ctx context.Context) bool
	SaveDarkMode(ctx context.Context, dark bool)
}
