package http

import (
	"context"

	"github.com/authkeep/authkeep/internal/domain"
)

type identityKey struct{}

// withIdentity attaches the authenticated principal to the request context.
func withIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the authenticated principal, if any. Requests
// without a usable access token pass the gate anonymously, so handlers behind
// an authorization tier can rely on ok being true while public handlers must
// check it.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(domain.Identity)
	return id, ok
}
