package storage

import (
	"context"

	"github.com/aishop/storefront/internal/core/domain"
)

// TokenStore keeps the bearer token under the "token" key as a raw string.
type TokenStore struct {
	store *SafeStore
}

func NewTokenStore(store *SafeStore) *TokenStore {
	return &TokenStore{store: store}
}

func (t *TokenStore) Token(ctx context.Context) string {
	v, _ := t.store.GetString(ctx, domain.KeyToken)
	return v
}

func (t *TokenStore) SaveToken(ctx context.Context, token string) {
	if token == "" {
		t.ClearToken(ctx)
		return
	}
	t.store.SetString(ctx, domain.KeyToken, token)
}

func (t *TokenStore) ClearToken(ctx context.Context) {
	t.store.Delete(ctx, domain.KeyToken)
}
