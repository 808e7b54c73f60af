package service_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/authkeep/authkeep/internal/revocation"
	"github.com/authkeep/authkeep/internal/service"
	"github.com/authkeep/authkeep/internal/store/drivers/sqlite"
	"github.com/authkeep/authkeep/internal/tokenstore"
	"github.com/authkeep/authkeep/pkg/jwtx"
)

const testSecret = "test-secret-0123456789abcdef0123456789abcdef"

type fixture struct {
	store  *sqlite.Store
	redis  *miniredis.Miniredis
	codec  *jwtx.Codec
	tokens *service.TokenService
	users  *service.UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	codec := jwtx.New([]byte(testSecret))
	registry := revocation.NewRegistry(
		revocation.NewRedisTier(rdb, time.Second),
		revocation.NewLocalCache(64),
		5*time.Minute,
		nil,
	)

	tokens := service.NewTokenService(service.TokenServiceConfig{
		Codec:      codec,
		Tokens:     tokenstore.New(rdb, time.Second),
		Revoked:    registry,
		Users:      st.Users(),
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 168 * time.Hour,
	})

	return &fixture{
		store:  st,
		redis:  mr,
		codec:  codec,
		tokens: tokens,
		users:  service.NewUserService(st.Users()),
	}
}
