package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList stores logged-out token ids until they would have expired.
// Key format: revoked:<token_id>
type RevocationList struct {
	client *redis.Client
}

// NewRevocationList creates a RevocationList wrapping the given Redis client.
func NewRevocationList(client *redis.Client) *RevocationList {
	return &RevocationList{client: client}
}

// IsRevoked reports whether tokenID was revoked.
func (l *RevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := l.client.Exists(ctx, l.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

// Revoke records tokenID for ttl. Non-positive ttls are a no-op because the
// token has already expired.
func (l *RevocationList) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := l.client.Set(ctx, l.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (l *RevocationList) key(tokenID string) string {
	return "revoked:" + tokenID
}

// NopRevocationList is used when Redis is not configured: nothing is ever
// revoked and logout is purely client-side.
type NopRevocationList struct{}

func (NopRevocationList) IsRevoked(context.Context, string) (bool, error) { return false, nil }

func (NopRevocationList) Revoke(context.Context, string, time.Duration) error { return nil }
