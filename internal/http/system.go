package http

import (
	"context"
	"net/http"
	"time"

	"github.com/authkeep/authkeep/internal/store"
	"github.com/authkeep/authkeep/pkg/httpx"
)

type healthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *healthChecks `json:"checks,omitempty"`
}

type healthChecks struct {
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// LivezHandler reports basic liveness: the process is up and serving.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, healthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// RedisPinger is the slice of the Redis client the readiness probe needs.
type RedisPinger interface {
	Ping(ctx context.Context) error
}

// ReadyzHandler reports readiness: the user store and the token store must
// both answer.
func ReadyzHandler(startTime time.Time, version string, st store.Store, rdb RedisPinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &healthChecks{Database: "ok", Redis: "ok"}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		if err := rdb.Ping(r.Context()); err != nil {
			checks.Redis = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, healthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
