package sqlite_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/authkeep/authkeep/internal/domain"
	"github.com/authkeep/authkeep/internal/store"
	"github.com/authkeep/authkeep/internal/store/drivers/sqlite"
	"github.com/authkeep/authkeep/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	// A named in-memory database per test so parallel tests don't share state.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func TestUsersCreateAndGet(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	u := domain.User{
		ID:           idx.New().String(),
		Username:     "john_doe123",
		Nickname:     "johnny",
		PasswordHash: "$2a$10$notarealhashnotarealhashnotare",
		Role:         domain.RoleUser,
	}
	require.NoError(t, st.Users().Create(ctx, u))

	t.Run("by username", func(t *testing.T) {
		got, err := st.Users().GetByUsername(ctx, "john_doe123")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.Equal(t, domain.RoleUser, got.Role)
		require.False(t, got.CreatedAt.IsZero())
	})

	t.Run("by id", func(t *testing.T) {
		got, err := st.Users().GetByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "john_doe123", got.Username)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := st.Users().GetByUsername(ctx, "nobody_here")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate username", func(t *testing.T) {
		dup := u
		dup.ID = idx.New().String()
		err := st.Users().Create(ctx, dup)
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})
}

func TestUsersUpdateRole(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	u := domain.User{
		ID:           idx.New().String(),
		Username:     "jane_doe123",
		Nickname:     "janie",
		PasswordHash: "$2a$10$notarealhashnotarealhashnotare",
		Role:         domain.RoleUser,
	}
	require.NoError(t, st.Users().Create(ctx, u))

	require.NoError(t, st.Users().UpdateRole(ctx, u.ID, domain.RoleAdmin))

	got, err := st.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, got.Role)

	t.Run("unknown id", func(t *testing.T) {
		err := st.Users().UpdateRole(ctx, "01J00000000000000000000000", domain.RoleAdmin)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}
