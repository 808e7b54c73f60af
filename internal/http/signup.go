package http

import (
	"encoding/json"
	"net/http"

	"github.com/authkeep/authkeep/internal/service"
	"github.com/authkeep/authkeep/pkg/httpx"
)

type SignupHandler struct {
	Users *service.UserService
}

type signupRequest struct {
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

type signupResponse struct {
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
}

func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errValidation.writeMessage(w, "request body must be valid JSON")
		return
	}

	user, err := h.Users.Signup(r.Context(), req.Username, req.Nickname, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, signupResponse{
		Username: user.Username,
		Nickname: user.Nickname,
		Role:     user.Role.String(),
	})
}
