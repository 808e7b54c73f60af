package http

import (
	"errors"
	"net/http"

	"github.com/authkeep/authkeep/internal/domain"
	"github.com/authkeep/authkeep/internal/service"
	"github.com/authkeep/authkeep/pkg/httpx"
	"github.com/authkeep/authkeep/pkg/jwtx"
	"github.com/authkeep/authkeep/pkg/slogx"
)

// AccessRules drives both the authentication gate and the authorization
// middleware. Patterns are Ant-style: "*" matches one path segment, "**"
// matches any suffix.
type AccessRules struct {
	// Public paths skip the gate entirely for every method.
	Public []string

	// MethodBypass maps an HTTP method to patterns that skip the gate for
	// that method only.
	MethodBypass map[string][]string

	// AdminPaths require the admin role.
	AdminPaths []string

	// UserPaths require the user role (admins qualify too).
	UserPaths []string
}

// DefaultAccessRules is the out-of-the-box tier layout. Logout and refresh
// bypass the gate because clients present them with expired or absent access
// tokens; both validate what they were handed themselves.
func DefaultAccessRules() AccessRules {
	return AccessRules{
		Public: []string{"/login", "/signup", "/livez", "/readyz"},
		MethodBypass: map[string][]string{
			http.MethodPost: {"/refresh", "/users/logout"},
		},
		AdminPaths: []string{"/admin/**"},
		UserPaths:  []string{"/users/**"},
	}
}

// Bypassed reports whether the request skips authentication.
func (a AccessRules) Bypassed(r *http.Request) bool {
	if httpx.MatchAny(a.Public, r.URL.Path) {
		return true
	}
	return httpx.MatchAny(a.MethodBypass[r.Method], r.URL.Path)
}

// Gate is the per-request authentication middleware. It never rejects a
// request for a missing or undecodable token; those proceed anonymously and
// authorization decides downstream. It does halt with 401 when the token has
// been revoked, and with 503 when the revocation registry cannot answer.
func Gate(rules AccessRules, codec *jwtx.Codec, tokens *service.TokenService, users *service.UserService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rules.Bypassed(r) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			log := slogx.FromContext(ctx)

			token, ok := httpx.ExtractBearer(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := codec.Decode(token)
			if err != nil {
				// An unusable token carries no authority but doesn't block the
				// request; authorization handles the rest. It also skips the
				// revocation check: only tokens that decode are worth a store
				// round trip.
				log.Debug("access token rejected", slogx.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			revoked, err := tokens.IsBlacklisted(ctx, token)
			if err != nil {
				log.Error("revocation check failed", slogx.Err(err))
				errUnavailable.write(w)
				return
			}
			if revoked {
				errBlacklistToken.write(w)
				return
			}

			user, err := users.GetByUsername(ctx, claims.Subject)
			if err != nil {
				if errors.Is(err, service.ErrUserNotFound) {
					// A valid signature naming a missing user is not trusted.
					log.Warn("token subject has no user record", "subject", claims.Subject)
					errUnauthorizedToken.write(w)
					return
				}
				log.Error("identity load failed", slogx.Err(err))
				errUnavailable.write(w)
				return
			}

			ctx = withIdentity(ctx, domain.Identity{
				UserID:   user.ID,
				Username: user.Username,
				Nickname: user.Nickname,
				Role:     user.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authorize enforces the path tiers in rules: admin paths need the admin
// role, user paths need any valid role, and everything not bypassed needs an
// authenticated identity.
func Authorize(rules AccessRules) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rules.Bypassed(r) {
				next.ServeHTTP(w, r)
				return
			}

			id, ok := IdentityFromContext(r.Context())
			if !ok {
				errNotAllowUser.write(w)
				return
			}

			if httpx.MatchAny(rules.AdminPaths, r.URL.Path) && id.Role != domain.RoleAdmin {
				errAdminRoleRequired.write(w)
				return
			}
			if httpx.MatchAny(rules.UserPaths, r.URL.Path) && !id.Role.IsValid() {
				errNotAllowUser.write(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
