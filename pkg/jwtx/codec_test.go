package jwtx_test

import (
	"testing"
	"time"

	"github.com/authkeep/authkeep/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestIssueDecodeRoundTrip(t *testing.T) {
	codec := jwtx.New(testSecret)

	t.Run("access token carries subject and role", func(t *testing.T) {
		token, err := codec.Issue("alice_writer", "admin", time.Minute)
		require.NoError(t, err)

		claims, err := codec.Decode(token)
		require.NoError(t, err)
		require.Equal(t, "alice_writer", claims.Subject)
		require.Equal(t, "admin", claims.Role)
		require.NotNil(t, claims.IssuedAt)
		require.NotNil(t, claims.ExpiresAt)
	})

	t.Run("refresh token carries no role", func(t *testing.T) {
		token, err := codec.Issue("alice_writer", "", time.Hour)
		require.NoError(t, err)

		claims, err := codec.Decode(token)
		require.NoError(t, err)
		require.Equal(t, "alice_writer", claims.Subject)
		require.Empty(t, claims.Role)
	})
}

func TestDecodeFailureKinds(t *testing.T) {
	codec := jwtx.New(testSecret)

	t.Run("empty token", func(t *testing.T) {
		_, err := codec.Decode("")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := codec.Decode("not.a.token")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := jwtx.New([]byte("another-secret-another-secret-xx"))
		token, err := other.Issue("alice_writer", "user", time.Minute)
		require.NoError(t, err)

		_, err = codec.Decode(token)
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("expired token is always ErrExpired", func(t *testing.T) {
		token, err := codec.Issue("alice_writer", "user", -time.Minute)
		require.NoError(t, err)

		_, err = codec.Decode(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
		require.NotErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("unrecognised signing algorithm", func(t *testing.T) {
		raw := jwt.NewWithClaims(jwt.SigningMethodHS384, jwt.RegisteredClaims{
			Subject:   "alice_writer",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		})
		token, err := raw.SignedString(testSecret)
		require.NoError(t, err)

		_, err = codec.Decode(token)
		require.ErrorIs(t, err, jwtx.ErrUnsupported)
	})

	t.Run("missing subject", func(t *testing.T) {
		raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		})
		token, err := raw.SignedString(testSecret)
		require.NoError(t, err)

		_, err = codec.Decode(token)
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})
}

func TestClaimsRemaining(t *testing.T) {
	codec := jwtx.New(testSecret)
	now := time.Now()

	token, err := codec.Issue("alice_writer", "user", 10*time.Minute)
	require.NoError(t, err)

	claims, err := codec.Decode(token)
	require.NoError(t, err)

	remaining := claims.Remaining(now)
	require.Greater(t, remaining, 9*time.Minute)
	require.LessOrEqual(t, remaining, 10*time.Minute+time.Second)
}
