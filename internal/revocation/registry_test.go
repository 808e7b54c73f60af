package revocation_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/authkeep/authkeep/internal/revocation"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) (*revocation.Registry, *revocation.LocalCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	local := revocation.NewLocalCache(100)
	reg := revocation.NewRegistry(revocation.NewRedisTier(rdb, time.Second), local, 5*time.Minute, nil)
	return reg, local, mr
}

func TestMarkRevokedThenIsRevoked(t *testing.T) {
	reg, _, mr := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, reg.MarkRevoked(ctx, "token-a", 10*time.Minute))

	revoked, err := reg.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	require.True(t, revoked)

	t.Run("durable entry never outlives the token", func(t *testing.T) {
		require.True(t, mr.Exists("BL:token-a"))
		ttl := mr.TTL("BL:token-a")
		require.Greater(t, ttl, time.Duration(0))
		require.LessOrEqual(t, ttl, 10*time.Minute)
	})

	t.Run("visible across a fresh local cache", func(t *testing.T) {
		// A second node shares only the durable tier.
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = rdb.Close() })

		other := revocation.NewRegistry(
			revocation.NewRedisTier(rdb, time.Second),
			revocation.NewLocalCache(100),
			5*time.Minute,
			nil,
		)
		revoked, err := other.IsRevoked(ctx, "token-a")
		require.NoError(t, err)
		require.True(t, revoked)
	})
}

func TestExpiredTokenIsNoOp(t *testing.T) {
	reg, _, mr := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, reg.MarkRevoked(ctx, "stale-token", -time.Minute))
	require.False(t, mr.Exists("BL:stale-token"))

	revoked, err := reg.IsRevoked(ctx, "stale-token")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestNegativeVerdictIsCached(t *testing.T) {
	reg, local, mr := newTestRegistry(t)
	ctx := context.Background()

	revoked, err := reg.IsRevoked(ctx, "innocent-token")
	require.NoError(t, err)
	require.False(t, revoked)

	// The negative verdict landed in the local cache, so the durable tier is
	// no longer consulted for this token.
	require.Equal(t, 1, local.Len())
	mr.Close()

	revoked, err = reg.IsRevoked(ctx, "innocent-token")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestDurableTierBackstopsCacheEviction(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	// A tiny cache so the blacklisted token is evicted by churn.
	local := revocation.NewLocalCache(16)
	reg := revocation.NewRegistry(revocation.NewRedisTier(rdb, time.Second), local, 5*time.Minute, nil)
	ctx := context.Background()

	require.NoError(t, reg.MarkRevoked(ctx, "token-b", 10*time.Minute))

	for i := 0; i < 200; i++ {
		_, err := reg.IsRevoked(ctx, fmt.Sprintf("filler-%d", i))
		require.NoError(t, err)
	}

	revoked, err := reg.IsRevoked(ctx, "token-b")
	require.NoError(t, err)
	require.True(t, revoked)
}

func TestDurableUnavailableSurfaces(t *testing.T) {
	reg, _, mr := newTestRegistry(t)
	mr.Close()

	_, err := reg.IsRevoked(context.Background(), "token-c")
	require.ErrorIs(t, err, revocation.ErrUnavailable)

	err = reg.MarkRevoked(context.Background(), "token-c", time.Minute)
	require.ErrorIs(t, err, revocation.ErrUnavailable)
}
