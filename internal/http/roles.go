package http

import (
	"net/http"

	"github.com/authkeep/authkeep/internal/service"
	"github.com/authkeep/authkeep/pkg/httpx"
	"github.com/authkeep/authkeep/pkg/slogx"
)

type GrantRoleHandler struct {
	Users *service.UserService
}

type grantRoleResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// ServeHTTP promotes the target user to admin. The route sits behind the
// admin path tier, but the service re-checks the actor's role so the
// privilege decision doesn't rest on routing alone.
func (h *GrantRoleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := IdentityFromContext(ctx)
	if !ok {
		errNotAllowUser.write(w)
		return
	}

	targetID := r.PathValue("userID")
	if targetID == "" {
		errValidation.writeMessage(w, "userID path parameter required")
		return
	}

	promoted, err := h.Users.GrantAdmin(ctx, actor, targetID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slogx.FromContext(ctx).Info("role granted",
		"actor", actor.Username,
		"target", promoted.Username,
		"role", promoted.Role.String(),
	)
	httpx.WriteJSON(w, http.StatusOK, grantRoleResponse{
		UserID:   promoted.ID,
		Username: promoted.Username,
		Role:     promoted.Role.String(),
	})
}
