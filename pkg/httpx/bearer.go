package httpx

import (
	"net/http"
	"strings"
)

// BearerPrefix is the Authorization header scheme prefix for bearer tokens.
const BearerPrefix = "Bearer "

// ExtractBearer returns the bearer token from the request's Authorization
// header. The second return is false when the header is absent or does not
// use the bearer scheme.
func ExtractBearer(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(authz, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authz, BearerPrefix))
	if token == "" {
		return "", false
	}
	return token, true
}
