package http

import (
	"errors"
	"net/http"

	"github.com/authkeep/authkeep/internal/service"
	"github.com/authkeep/authkeep/pkg/httpx"
	"github.com/authkeep/authkeep/pkg/jwtx"
	"github.com/authkeep/authkeep/pkg/slogx"
)

type LogoutHandler struct {
	Tokens *service.TokenService
	Users  *service.UserService
	Codec  *jwtx.Codec
}

// ServeHTTP ends the caller's session: the presented access token is
// blacklisted for the rest of its life and the stored refresh token is
// discarded. Logout succeeds even when the access token is already expired or
// garbled; there is nothing left to revoke in that case.
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	authz := r.Header.Get("Authorization")
	if err := h.Tokens.Blacklist(ctx, authz); err != nil {
		log.Error("blacklist failed", slogx.Err(err))
		errUnavailable.write(w)
		return
	}

	// Discard the stored refresh token when the access token still names a
	// known user. A vanished user means there is no session left to discard;
	// any other lookup failure leaves the session alive and must not be
	// reported as a successful logout.
	if token, ok := httpx.ExtractBearer(r); ok {
		if claims, err := h.Codec.Decode(token); err == nil {
			user, err := h.Users.GetByUsername(ctx, claims.Subject)
			switch {
			case err == nil:
				if err := h.Tokens.DiscardSession(ctx, user.ID); err != nil {
					log.Error("session discard failed", slogx.Err(err))
					errUnavailable.write(w)
					return
				}
			case errors.Is(err, service.ErrUserNotFound):
				log.Warn("logout token subject has no user record", "subject", claims.Subject)
			default:
				log.Error("identity load failed during logout", slogx.Err(err))
				errUnavailable.write(w)
				return
			}
		}
	}

	clearRefreshCookie(w)
	w.WriteHeader(http.StatusOK)
}
