package http

import (
	"errors"
	"net/http"

	"github.com/authkeep/authkeep/internal/service"
	"github.com/authkeep/authkeep/pkg/httpx"
	"github.com/authkeep/authkeep/pkg/slogx"
)

// apiError pairs an HTTP status with a stable machine-readable code. The
// message is a default; handlers can override it with request detail.
type apiError struct {
	status  int
	code    string
	message string
}

var (
	errValidation         = apiError{http.StatusBadRequest, "VALIDATION_ERROR", "request validation failed"}
	errDuplicateUsername  = apiError{http.StatusBadRequest, "DUPLICATE_USERNAME", "username already taken"}
	errInvalidCredentials = apiError{http.StatusBadRequest, "INVALID_CREDENTIALS", "invalid username or password"}
	errNotFoundUser       = apiError{http.StatusNotFound, "NOT_FOUND_USER", "user not found"}
	errUnauthorizedToken  = apiError{http.StatusUnauthorized, "UNAUTHORIZED_TOKEN", "token is not valid"}
	errBlacklistToken     = apiError{http.StatusUnauthorized, "BLACKLIST_TOKEN", "token has been revoked"}
	errNotAllowUser       = apiError{http.StatusUnauthorized, "NOT_ALLOW_USER", "authentication required"}
	errAdminRoleRequired  = apiError{http.StatusUnauthorized, "FORBIDDEN_ADMIN_ROLE_REQUIRED", "admin role required"}
	errInternal           = apiError{http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal server error"}
	errUnavailable        = apiError{http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "service temporarily unavailable"}
)

func (e apiError) write(w http.ResponseWriter) {
	httpx.WriteError(w, e.status, e.code, e.message)
}

func (e apiError) writeMessage(w http.ResponseWriter, message string) {
	httpx.WriteError(w, e.status, e.code, message)
}

// writeServiceError maps service-layer sentinels onto the wire error table.
// Anything unmapped is an internal error; the cause is logged, not leaked.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		errValidation.writeMessage(w, err.Error())
	case errors.Is(err, service.ErrDuplicateUsername):
		errDuplicateUsername.write(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		errInvalidCredentials.write(w)
	case errors.Is(err, service.ErrUserNotFound):
		errNotFoundUser.write(w)
	case errors.Is(err, service.ErrUnauthorizedToken):
		errUnauthorizedToken.write(w)
	case errors.Is(err, service.ErrBlacklistedToken):
		errBlacklistToken.write(w)
	case errors.Is(err, service.ErrAdminRequired):
		errAdminRoleRequired.write(w)
	default:
		slogx.FromContext(r.Context()).Error("unhandled service error", slogx.Err(err))
		errInternal.write(w)
	}
}
