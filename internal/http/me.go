package http

import (
	"net/http"

	"github.com/authkeep/authkeep/pkg/httpx"
)

type meResponse struct {
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}

// MeHandler echoes the authenticated principal. The authorization middleware
// guarantees an identity is present by the time this runs.
func MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			errNotAllowUser.write(w)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, meResponse{
			Username: id.Username,
			Nickname: id.Nickname,
			Role:     id.Role.String(),
		})
	}
}
