package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/authkeep/authkeep/internal/service"
	"github.com/authkeep/authkeep/pkg/httpx"
	"github.com/authkeep/authkeep/pkg/slogx"
)

type LoginHandler struct {
	Users      *service.UserService
	Tokens     *service.TokenService
	RefreshTTL time.Duration
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Nickname     string `json:"nickname"`
	Role         string `json:"role"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errValidation.writeMessage(w, "request body must be valid JSON")
		return
	}

	user, err := h.Users.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		// Unknown username and wrong password answer identically so login
		// can't be used to probe for accounts.
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrInvalidCredentials) {
			log.Info("login rejected", "username", req.Username)
			errInvalidCredentials.write(w)
			return
		}
		writeServiceError(w, r, err)
		return
	}

	pair, err := h.Tokens.IssueSession(ctx, user)
	if err != nil {
		log.Error("session issue failed", slogx.Err(err))
		errInternal.write(w)
		return
	}

	w.Header().Set("Authorization", httpx.BearerPrefix+pair.AccessToken)
	setRefreshCookie(w, pair.RefreshToken, h.RefreshTTL)
	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Nickname:     user.Nickname,
		Role:         user.Role.String(),
	})
}
