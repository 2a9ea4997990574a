package storage

import (
	"context"

	"github.com/aishop/storefront/internal/core/domain"
)

// RecentlyViewedStore keeps the recently-viewed list as a JSON array.
type RecentlyViewedStore struct {
	store *SafeStore
}

func NewRecentlyViewedStore(store *SafeStore) *RecentlyViewedStore {
	return &RecentlyViewedStore{store: store}
}

func (r *RecentlyViewedStore) RecentlyViewed(ctx context.Context, fallback []domain.Product) []domain.Product {
	return Get(ctx, r.store, domain.KeyRecentlyViewed, fallback)
}

func (r *RecentlyViewedStore) SaveRecentlyViewed(ctx context.Context, list []domain.Product) {
	if list == nil {
		list = []domain.Product{}
	}
	Set(ctx, r.store, domain.KeyRecentlyViewed, list)
}

// ThemeStore keeps the dark-mode flag as "true" or "false".
type ThemeStore struct {
	store *SafeStore
}

func NewThemeStore(store *SafeStore) *ThemeStore {
	return &ThemeStore{store: store}
}

func (t *ThemeStore) DarkMode(ctx context.Context) bool {
	return Get(ctx, t.store, domain.KeyDarkMode, false)
}

func (t *ThemeStore) SaveDarkMode(ctx context.Context, dark bool) {
	Set(ctx, t.store, domain.KeyDarkMode, dark)
}
