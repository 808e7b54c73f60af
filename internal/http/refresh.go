package http

import (
	"errors"
	"net/http"

	"github.com/authkeep/authkeep/internal/service"
	"github.com/authkeep/authkeep/pkg/httpx"
	"github.com/authkeep/authkeep/pkg/slogx"
)

type RefreshHandler struct {
	Tokens *service.TokenService
}

// ServeHTTP exchanges the refresh token cookie for a new access token,
// returned in the Authorization header. A refresh token that fails
// cross-checking ends the session: the server-side entry is discarded and the
// cookie cleared, so the client has to log in again.
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		clearRefreshCookie(w)
		errUnauthorizedToken.writeMessage(w, "refresh token cookie missing")
		return
	}

	access, user, err := h.Tokens.Refresh(ctx, cookie.Value)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorizedToken), errors.Is(err, service.ErrUserNotFound):
			log.Info("refresh rejected", slogx.Err(err))
			clearRefreshCookie(w)
			errUnauthorizedToken.write(w)
		default:
			log.Error("refresh failed", slogx.Err(err))
			errInternal.write(w)
		}
		return
	}

	log.Debug("access token refreshed", "username", user.Username)
	w.Header().Set("Authorization", httpx.BearerPrefix+access)
	httpx.NoCache(w)
	w.WriteHeader(http.StatusOK)
}
