package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "BL:"

// RedisTier is the durable blacklist tier. Only positive verdicts are stored;
// a missing key means "not revoked".
type RedisTier struct {
	rdb     redis.UniversalClient
	timeout time.Duration
}

// NewRedisTier wraps a Redis client as a blacklist tier. timeout bounds every
// round trip; a non-positive value falls back to 3s.
func NewRedisTier(rdb redis.UniversalClient, timeout time.Duration) *RedisTier {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &RedisTier{rdb: rdb, timeout: timeout}
}

func (t *RedisTier) Get(ctx context.Context, token string) (bool, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	n, err := t.rdb.Exists(ctx, keyPrefix+token).Result()
	if err != nil {
		return false, false, fmt.Errorf("blacklist lookup: %w", err)
	}
	// The durable tier is authoritative: absence is a definitive negative.
	return n > 0, true, nil
}

func (t *RedisTier) Set(ctx context.Context, token string, revoked bool, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	key := keyPrefix + token
	if !revoked {
		if err := t.rdb.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("blacklist delete: %w", err)
		}
		return nil
	}

	if err := t.rdb.Set(ctx, key, "revoked", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist write: %w", err)
	}
	return nil
}

var _ Tier = (*RedisTier)(nil)
