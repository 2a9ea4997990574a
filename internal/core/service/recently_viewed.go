package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aishop/storefront/internal/core/domain"
	"github.com/aishop/storefront/internal/core/ports"
)

// RecentlyViewedService maintains the capped, most-recent-first product list.
type RecentlyViewedService struct {
	store ports.RecentlyViewedStore
	log   zerolog.Logger

	mu   sync.Mutex
	list []domain.Product
}

func NewRecentlyViewedService(store ports.RecentlyViewedStore, log zerolog.Logger) *RecentlyViewedService {
	return &RecentlyViewedService{
		store: store,
		log:   log.With().Str("component", "recently_viewed").Logger(),
	}
}

// Reload replaces the in-memory list with the stored one.
func (r *RecentlyViewedService) Reload(ctx context.Context) {
	list := domain.NormalizeRecentlyViewed(r.store.RecentlyViewed(ctx, []domain.Product{}))
	r.mu.Lock()
	r.list = list
	r.mu.Unlock()
}

// Record moves p to the front of the list and persists it. The stored list is
// re-read first so that writes from other processes are not lost.
func (r *RecentlyViewedService) Record(ctx context.Context, p domain.Product) {
	if p.ID.IsZero() {
		r.log.Warn().Str("name", p.Name).Msg("ignoring product without id")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	base := r.store.RecentlyViewed(ctx, r.list)
	r.list = domain.PushRecentlyViewed(base, p)
	r.store.SaveRecentlyViewed(ctx, r.list)
}

// List returns a copy of the current list, never nil.
func (r *RecentlyViewedService) List() []domain.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Product, len(r.list))
	copy(out, r.list)
	return out
}
