// Package tokenstore persists the single active refresh token per subject in
// Redis, keyed "RT:"+userID with a TTL equal to the refresh-token lifetime.
//
// The store fails closed: any Redis error surfaces as ErrUnavailable and is
// never silently swallowed, because refresh-token validation must treat an
// unreachable store as "refresh token invalid" rather than trusting the
// presented token.
package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "RT:"

var (
	// ErrNotFound reports that no refresh token is stored for the subject.
	ErrNotFound = errors.New("tokenstore: not found")

	// ErrUnavailable reports that the backing store could not be reached.
	ErrUnavailable = errors.New("tokenstore: store unavailable")
)

// Store maps a user identifier to their current refresh token.
type Store struct {
	rdb     redis.UniversalClient
	timeout time.Duration
}

// New returns a Store over the given Redis client. timeout bounds every
// store round trip; a non-positive value falls back to 3s.
func New(rdb redis.UniversalClient, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Store{rdb: rdb, timeout: timeout}
}

func key(userID string) string { return keyPrefix + userID }

// Put unconditionally overwrites the stored refresh token for the subject.
func (s *Store) Put(ctx context.Context, userID, token string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.rdb.Set(ctx, key(userID), token, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

// Get returns the stored refresh token, or ErrNotFound when absent.
func (s *Store) Get(ctx context.Context, userID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	val, err := s.rdb.Get(ctx, key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return val, nil
}

// Ping verifies the Redis connection, for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

// Delete removes the subject's refresh token and reports whether one existed.
func (s *Store) Delete(ctx context.Context, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.rdb.Del(ctx, key(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return n > 0, nil
}
