package tokenstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/authkeep/authkeep/internal/tokenstore"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*tokenstore.Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return tokenstore.New(rdb, time.Second), mr
}

func TestPutGetDelete(t *testing.T) {
	st, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Put(ctx, "user-1", "refresh-token-a", time.Hour))

	got, err := st.Get(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, "refresh-token-a", got)

	t.Run("overwrite on re-login", func(t *testing.T) {
		require.NoError(t, st.Put(ctx, "user-1", "refresh-token-b", time.Hour))
		got, err := st.Get(ctx, "user-1")
		require.NoError(t, err)
		require.Equal(t, "refresh-token-b", got)
	})

	t.Run("keys carry the RT prefix and a TTL", func(t *testing.T) {
		require.True(t, mr.Exists("RT:user-1"))
		require.Greater(t, mr.TTL("RT:user-1"), time.Duration(0))
	})

	t.Run("delete reports presence", func(t *testing.T) {
		present, err := st.Delete(ctx, "user-1")
		require.NoError(t, err)
		require.True(t, present)

		present, err = st.Delete(ctx, "user-1")
		require.NoError(t, err)
		require.False(t, present)
	})
}

func TestGetAbsent(t *testing.T) {
	st, _ := newTestStore(t)

	_, err := st.Get(context.Background(), "ghost")
	require.ErrorIs(t, err, tokenstore.ErrNotFound)
}

func TestExpiryEvictsEntry(t *testing.T) {
	st, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Put(ctx, "user-2", "short-lived", 100*time.Millisecond))
	mr.FastForward(time.Second)

	_, err := st.Get(ctx, "user-2")
	require.ErrorIs(t, err, tokenstore.ErrNotFound)
}

func TestStoreUnavailable(t *testing.T) {
	st, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Put(ctx, "user-3", "token", time.Hour))
	require.NoError(t, st.Ping(ctx))
	mr.Close()

	_, err := st.Get(ctx, "user-3")
	require.ErrorIs(t, err, tokenstore.ErrUnavailable)

	err = st.Put(ctx, "user-3", "token", time.Hour)
	require.ErrorIs(t, err, tokenstore.ErrUnavailable)

	_, err = st.Delete(ctx, "user-3")
	require.ErrorIs(t, err, tokenstore.ErrUnavailable)

	require.ErrorIs(t, st.Ping(ctx), tokenstore.ErrUnavailable)
}
