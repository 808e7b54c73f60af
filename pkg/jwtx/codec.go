// Package jwtx implements the signed-token codec: issuing and decoding
// HMAC-SHA256 JWTs carrying subject, role, issued-at, and expiry claims.
//
// The codec is a pure function of its inputs and the process-wide secret. It
// holds no mutable state and is safe for unbounded concurrent use. Access and
// refresh tokens are signed with the same secret and differ only in claim
// shape (refresh tokens carry no role) and caller-supplied TTL; callers must
// not conflate the two.
package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the verified contents of a decoded token.
type Claims struct {
	jwt.RegisteredClaims

	// Role is present on access tokens and absent on refresh tokens.
	Role string `json:"role,omitempty"`
}

// Codec issues and decodes HS256-signed tokens against a shared secret.
type Codec struct {
	secret []byte
}

// New returns a codec bound to the given signing secret.
func New(secret []byte) *Codec {
	return &Codec{secret: secret}
}

// Issue builds and signs a token with iat=now and exp=now+ttl. An empty role
// is omitted from the claims, which is how refresh tokens are minted.
func (c *Codec) Issue(subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// errUnexpectedMethod is surfaced through the keyfunc so Decode can classify
// wrong-algorithm tokens separately from signature failures.
var errUnexpectedMethod = errors.New("jwtx: unexpected signing method")

// Decode parses and verifies a token string. Failures are classified into
// exactly one of the package sentinels: ErrMalformed for empty, unparsable,
// or signature-invalid input; ErrExpired when exp is in the past; and
// ErrUnsupported when the signing algorithm is not HS256. An expired token
// always yields ErrExpired, never another kind.
func (c *Codec) Decode(token string) (Claims, error) {
	if token == "" {
		return Claims{}, ErrMalformed
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errUnexpectedMethod
		}
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, errUnexpectedMethod):
			return Claims{}, ErrUnsupported
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrExpired
		default:
			return Claims{}, ErrMalformed
		}
	}

	if claims.Subject == "" {
		return Claims{}, ErrMalformed
	}
	return claims, nil
}

// Remaining reports how long the token's exp claim lies in the future. It is
// zero or negative for expired claims and is used to size blacklist TTLs so
// an entry never outlives the token it suppresses.
func (cl Claims) Remaining(now time.Time) time.Duration {
	if cl.ExpiresAt == nil {
		return 0
	}
	return cl.ExpiresAt.Time.Sub(now)
}
