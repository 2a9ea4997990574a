// Package memory holds the contract server's in-process repositories.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aishop/storefront/internal/core/domain"
)

// AccountRepository is an in-memory ports.AccountRepository.
type AccountRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.Account
	byEmail map[string]string
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		byID:    make(map[string]*domain.Account),
		byEmail: make(map[string]string),
	}
}

func (r *AccountRepository) Create(_ context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[a.Email]; ok {
		return domain.ErrUserExists
	}
	r.byID[a.ID] = a.Clone()
	r.byEmail[a.Email] = a.ID
	return nil
}

func (r *AccountRepository) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.byID[id].Clone(), nil
}

func (r *AccountRepository) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return a.Clone(), nil
}

func (r *AccountRepository) Update(_ context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.byID[a.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if owner, taken := r.byEmail[a.Email]; taken && owner != a.ID {
		return domain.ErrUserExists
	}
	delete(r.byEmail, prev.Email)
	r.byID[a.ID] = a.Clone()
	r.byEmail[a.Email] = a.ID
	return nil
}

// WishlistRepository is an in-memory ports.WishlistRepository that keeps
// insertion order.
type WishlistRepository struct {
	mu    sync.Mutex
	lists map[string][]domain.Identifier
}

func NewWishlistRepository() *WishlistRepository {
	return &WishlistRepository{lists: make(map[string][]domain.Identifier)}
}

func (r *WishlistRepository) List(_ context.Context, userID string) ([]domain.Identifier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Identifier, len(r.lists[userID]))
	copy(out, r.lists[userID])
	return out, nil
}

func (r *WishlistRepository) Add(_ context.Context, userID string, productID domain.Identifier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.lists[userID] {
		if id == productID {
			return nil
		}
	}
	r.lists[userID] = append(r.lists[userID], productID)
	return nil
}

func (r *WishlistRepository) Remove(_ context.Context, userID string, productID domain.Identifier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.lists[userID]
	for i, id := range list {
		if id == productID {
			r.lists[userID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return nil
}

// RevocationStore is an in-memory ports.RevocationStore.
type RevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewRevocationStore() *RevocationStore {
	return &RevocationStore{revoked: make(map[string]time.Time), now: time.Now}
}

func (r *RevocationStore) Revoke(_ context.Context, token string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for t, until := range r.revoked {
		if now.After(until) {
			delete(r.revoked, t)
		}
	}
	r.revoked[token] = now.Add(ttl)
	return nil
}

func (r *RevocationStore) IsRevoked(_ context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	until, ok := r.revoked[token]
	return ok && r.now().Before(until), nil
}
