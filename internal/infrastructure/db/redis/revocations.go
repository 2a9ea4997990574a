package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore keeps logged-out tokens in Redis until they expire.
// Key format: <prefix>revoked:<sha256(token)>
type RevocationStore struct {
	client redis.Cmdable
	prefix string
}

func NewRevocationStore(client redis.Cmdable, prefix string) *RevocationStore {
	return &RevocationStore{client: client, prefix: prefix}
}

// Revoke marks token as revoked for ttl.
func (r *RevocationStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (r *RevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (r *RevocationStore) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return r.prefix + "revoked:" + hex.EncodeToString(sum[:])
}
