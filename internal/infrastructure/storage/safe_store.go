// Package storage implements the persisted key-value store wrapper and the
// file and in-memory backends behind it.
//
// Local persistence is an advisory cache: every read tolerates absence or
// corruption and every write failure is logged and absorbed.
package storage

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aishop/storefront/internal/core/domain"
	"github.com/aishop/storefront/internal/core/ports"
	"github.com/aishop/storefront/internal/metrics"
)

// SafeStore wraps a KVBackend so that no storage failure reaches its caller.
type SafeStore struct {
	backend ports.KVBackend
	log     zerolog.Logger

	mu        sync.Mutex
	reloaders []ports.Reloader
}

func NewSafeStore(backend ports.KVBackend, log zerolog.Logger) *SafeStore {
	return &SafeStore{
		backend: backend,
		log:     log.With().Str("component", "store").Logger(),
	}
}

// GetString returns the raw stored value. ok is false when the key is absent
// or the backend failed.
func (s *SafeStore) GetString(ctx context.Context, key string) (string, bool) {
	v, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.absorb("get", key, err)
		return "", false
	}
	return v, ok
}

// SetString persists a raw value.
func (s *SafeStore) SetString(ctx context.Context, key, value string) {
	if err := s.backend.Set(ctx, key, value); err != nil {
		s.absorb("set", key, err)
	}
}

// Delete removes key.
func (s *SafeStore) Delete(ctx context.Context, key string) {
	if err := s.backend.Delete(ctx, key); err != nil {
		s.absorb("delete", key, err)
	}
}

// OnReset registers a consumer rebuilt by Reset.
func (s *SafeStore) OnReset(r ports.Reloader) {
	s.mu.Lock()
	s.reloaders = append(s.reloaders, r)
	s.mu.Unlock()
}

// Reset deletes key and reloads every registered consumer. It is the last
// resort for state that keeps failing to decode.
func (s *SafeStore) Reset(ctx context.Context, key string) {
	s.Delete(ctx, key)

	s.mu.Lock()
	reloaders := append([]ports.Reloader(nil), s.reloaders...)
	s.mu.Unlock()

	s.log.Warn().Str("key", key).Int("consumers", len(reloaders)).Msg("store entry reset, reloading consumers")
	for _, r := range reloaders {
		r.Reload(ctx)
	}
}

func (s *SafeStore) absorb(op, key string, err error) {
	metrics.StorageFailuresTotal.WithLabelValues(op).Inc()
	s.log.Error().Err(domain.NewStorageError(op, key, err)).Str("key", key).Msg("storage failure absorbed")
}

// Get decodes the JSON value stored under key, returning fallback when the
// key is absent, empty, null, or malformed.
func Get[T any](ctx context.Context, s *SafeStore, key string, fallback T) T {
	raw, ok := s.GetString(ctx, key)
	if !ok {
		return fallback
	}
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return fallback
	}
	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		s.absorb("decode", key, err)
		return fallback
	}
	return out
}

// Set JSON-encodes value and stores it under key.
func Set(ctx context.Context, s *SafeStore, key string, value any) {
	b, err := json.Marshal(value)
	if err != nil {
		s.absorb("encode", key, err)
		return
	}
	s.SetString(ctx, key, string(b))
}
