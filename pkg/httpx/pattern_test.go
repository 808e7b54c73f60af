package httpx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/authkeep/authkeep/pkg/httpx"
)

func TestMatch(t *testing.T) {
	cases := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"/login", "/login", true},
		{"/login", "/login/", true},
		{"/login", "/logout", false},
		{"/login", "/login/extra", false},

		{"/users/*", "/users/me", true},
		{"/users/*", "/users", false},
		{"/users/*", "/users/me/settings", false},

		{"/admin/**", "/admin", true},
		{"/admin/**", "/admin/users", true},
		{"/admin/**", "/admin/users/01ABC/roles", true},
		{"/admin/**", "/administrator", false},

		{"/**", "/", true},
		{"/**", "/anything/at/all", true},

		{"/static/*.css", "/static/site.css", true},
		{"/static/*.css", "/static/site.js", false},

		{"/v*/health", "/v1/health", true},
		{"/v*/health", "/v12/health", true},
		{"/v*/health", "/health", false},
	}

	for _, tc := range cases {
		t.Run(tc.pattern+" vs "+tc.path, func(t *testing.T) {
			require.Equal(t, tc.want, httpx.Match(tc.pattern, tc.path))
		})
	}
}

func TestMatchAny(t *testing.T) {
	patterns := []string{"/login", "/signup", "/livez", "/readyz"}

	require.True(t, httpx.MatchAny(patterns, "/signup"))
	require.False(t, httpx.MatchAny(patterns, "/users/me"))
	require.False(t, httpx.MatchAny(nil, "/login"))
}
