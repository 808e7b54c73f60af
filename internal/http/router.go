package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/authkeep/authkeep/internal/service"
	"github.com/authkeep/authkeep/internal/store"
	"github.com/authkeep/authkeep/internal/tokenstore"
	"github.com/authkeep/authkeep/pkg/httpx"
	"github.com/authkeep/authkeep/pkg/jwtx"
	"github.com/authkeep/authkeep/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers and applies the global
// middleware chain: request logging, then the authentication gate, then
// path-tier authorization.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware
	handler     http.Handler

	rules        AccessRules
	codec        *jwtx.Codec
	refreshTTL   time.Duration
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store        store.Store
	tokenStore   *tokenstore.Store
	TokenService *service.TokenService
	UserService  *service.UserService
}

type RouterConfig struct {
	Rules        AccessRules
	Codec        *jwtx.Codec
	RefreshTTL   time.Duration
	BuildVersion string
	Store        store.Store
	TokenStore   *tokenstore.Store
	Logger       *slog.Logger
}

func NewRouter(cfg RouterConfig) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		rules:        cfg.Rules,
		codec:        cfg.Codec,
		refreshTTL:   cfg.RefreshTTL,
		buildVersion: cfg.BuildVersion,
		startTime:    time.Now(),
		store:        cfg.Store,
		tokenStore:   cfg.TokenStore,
		logger:       cfg.Logger,
	}
	return r
}

// ApplyRoutes registers all handlers. Call after the services are set.
func (r *Router) ApplyRoutes() {
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		Gate(r.rules, r.codec, r.TokenService, r.UserService),
		Authorize(r.rules),
	}

	r.registerAuth()
	r.registerUsers()
	r.registerAdmin()
	r.registerSystem()

	// Compose the chain once; it is immutable after this point.
	r.handler = httpx.Chain(r.Mux, r.middlewares...)
}

// ServeHTTP implements http.Handler and serves the pre-composed middleware
// chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// Credential endpoints get the strict profile to slow brute forcing.
	r.Mux.Handle("POST /signup",
		httpx.Chain(&SignupHandler{Users: r.UserService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /login",
		httpx.Chain(&LoginHandler{Users: r.UserService, Tokens: r.TokenService, RefreshTTL: r.refreshTTL},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /refresh",
		httpx.Chain(&RefreshHandler{Tokens: r.TokenService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUsers() {
	r.Mux.Handle("POST /users/logout",
		httpx.Chain(&LogoutHandler{Tokens: r.TokenService, Users: r.UserService, Codec: r.codec},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /users/me",
		httpx.Chain(MeHandler(),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	r.Mux.Handle("POST /admin/users/{userID}/roles",
		httpx.Chain(&GrantRoleHandler{Users: r.UserService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Monitoring may poll these frequently.
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.tokenStore),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
