package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aishop/storefront/internal/core/domain"
	"github.com/aishop/storefront/internal/core/ports"
	"github.com/aishop/storefront/internal/metrics"
)

// WishlistService hands out per-product membership trackers.
type WishlistService struct {
	api  ports.WishlistAPI
	auth ports.AuthState
	log  zerolog.Logger
}

func NewWishlistService(api ports.WishlistAPI, auth ports.AuthState, log zerolog.Logger) *WishlistService {
	return &WishlistService{
		api:  api,
		auth: auth,
		log:  log.With().Str("component", "wishlist").Logger(),
	}
}

// Membership returns a tracker for productID starting from "not in wishlist".
func (w *WishlistService) Membership(productID domain.Identifier) *WishlistMembership {
	return &WishlistMembership{svc: w, productID: productID}
}

// List returns every wishlisted product id. It requires a session.
func (w *WishlistService) List(ctx context.Context) ([]domain.Identifier, error) {
	if !w.auth.IsAuthenticated() {
		return nil, domain.NewValidationError(domain.MsgLoginRequired)
	}
	resp, err := w.api.List(ctx)
	if err != nil {
		return nil, err
	}
	return resp.Wishlist, nil
}

// WishlistMembership is the client's belief about one product.
//
// Toggles are serialized. A Check that started before the latest toggle is
// discarded when it completes. After a failed toggle the belief is marked
// stale and re-checked before the next toggle.
type WishlistMembership struct {
	svc       *WishlistService
	productID domain.Identifier

	ops sync.Mutex

	mu         sync.Mutex
	inWishlist bool
	stale      bool
	generation uint64
}

func (m *WishlistMembership) InWishlist() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inWishlist
}

// Check fetches the wishlist and updates the belief. It does nothing without
// a session; failures are logged only.
func (m *WishlistMembership) Check(ctx context.Context) {
	if !m.svc.auth.IsAuthenticated() {
		return
	}
	m.mu.Lock()
	gen := m.generation
	m.mu.Unlock()

	m.refresh(ctx, gen)
}

func (m *WishlistMembership) refresh(ctx context.Context, gen uint64) {
	resp, err := m.svc.api.List(ctx)
	if err != nil {
		m.svc.log.Warn().Err(err).Str("product_id", m.productID.String()).Msg("wishlist check failed")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.generation {
		metrics.StaleResponsesTotal.WithLabelValues("wishlist").Inc()
		return
	}
	m.inWishlist = resp.Contains(m.productID)
	m.stale = false
}

// Toggle adds or removes the product depending on the current belief and
// returns the resulting membership. On failure the belief is unchanged.
func (m *WishlistMembership) Toggle(ctx context.Context) (bool, error) {
	if !m.svc.auth.IsAuthenticated() {
		return m.InWishlist(), domain.NewValidationError(domain.MsgLoginRequired)
	}
	if m.productID.IsZero() {
		return false, domain.NewValidationError("product id is required")
	}

	m.ops.Lock()
	defer m.ops.Unlock()

	m.mu.Lock()
	stale, gen := m.stale, m.generation
	m.mu.Unlock()
	if stale {
		m.refresh(ctx, gen)
	}

	m.mu.Lock()
	m.generation++
	current := m.inWishlist
	m.mu.Unlock()

	var err error
	if current {
		err = m.svc.api.Remove(ctx, m.productID)
	} else {
		err = m.svc.api.Add(ctx, m.productID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.stale = true
		m.svc.log.Warn().Err(err).Str("product_id", m.productID.String()).Bool("was_member", current).Msg("wishlist toggle failed")
		return m.inWishlist, &domain.Error{Kind: domain.KindOf(err), Message: domain.MsgWishlistFailed, Err: err}
	}
	m.inWishlist = !current
	m.stale = false
	return m.inWishlist, nil
}
