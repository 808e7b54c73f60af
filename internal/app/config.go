package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	httpapi "github.com/authkeep/authkeep/internal/http"
)

type Config struct {
	Secret     string        // Required: HMAC secret for token signing
	AccessTTL  time.Duration // Optional: access token lifetime (default: 30m)
	RefreshTTL time.Duration // Optional: refresh token lifetime (default: 168h)

	RedisAddr     string // Optional: Redis address (default: localhost:6379)
	RedisPassword string // Optional: Redis password
	RedisDB       int    // Optional: Redis database number (default: 0)
	DatabaseFile  string // Optional: path to SQLite database file (default: ./authkeep.db)

	BlacklistCacheTTL  time.Duration // Optional: local blacklist cache TTL (default: 5m)
	BlacklistCacheSize int           // Optional: local blacklist cache capacity (default: 10000)
	StoreTimeout       time.Duration // Optional: per-call Redis timeout (default: 3s)

	Rules httpapi.AccessRules // Path tiers, overridable per list via env

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	// Local development reads a .env file when present; real deployments set
	// the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		Secret:     os.Getenv("AUTHKEEP_SECRET"),
		AccessTTL:  getEnvDurationOrDefault("AUTHKEEP_ACCESS_TTL", 30*time.Minute),
		RefreshTTL: getEnvDurationOrDefault("AUTHKEEP_REFRESH_TTL", 168*time.Hour),

		RedisAddr:     getEnvOrDefault("AUTHKEEP_REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("AUTHKEEP_REDIS_PASSWORD"),
		RedisDB:       getEnvIntOrDefault("AUTHKEEP_REDIS_DB", 0),
		DatabaseFile:  getEnvOrDefault("AUTHKEEP_DATABASE_FILE", "authkeep.db"),

		BlacklistCacheTTL:  getEnvDurationOrDefault("AUTHKEEP_BLACKLIST_CACHE_TTL", 5*time.Minute),
		BlacklistCacheSize: getEnvIntOrDefault("AUTHKEEP_BLACKLIST_CACHE_SIZE", 10000),
		StoreTimeout:       getEnvDurationOrDefault("AUTHKEEP_STORE_TIMEOUT", 3*time.Second),

		Rules: loadAccessRules(),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
}

// loadAccessRules starts from the built-in tier layout and replaces any list
// an environment variable overrides.
func loadAccessRules() httpapi.AccessRules {
	rules := httpapi.DefaultAccessRules()

	if v := os.Getenv("AUTHKEEP_PUBLIC_PATHS"); v != "" {
		rules.Public = splitList(v)
	}
	if v := os.Getenv("AUTHKEEP_ADMIN_PATHS"); v != "" {
		rules.AdminPaths = splitList(v)
	}
	if v := os.Getenv("AUTHKEEP_USER_PATHS"); v != "" {
		rules.UserPaths = splitList(v)
	}
	if v := os.Getenv("AUTHKEEP_METHOD_BYPASS"); v != "" {
		rules.MethodBypass = parseMethodBypass(v)
	}
	return rules
}

// splitList parses a comma-separated path list.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseMethodBypass parses entries of the form "METHOD /path", comma
// separated, e.g. "POST /refresh,POST /users/logout".
func parseMethodBypass(s string) map[string][]string {
	out := make(map[string][]string)
	for _, part := range strings.Split(s, ",") {
		method, path, found := strings.Cut(strings.TrimSpace(part), " ")
		if !found {
			continue
		}
		method = strings.ToUpper(strings.TrimSpace(method))
		path = strings.TrimSpace(path)
		if method == "" || path == "" {
			continue
		}
		out[method] = append(out[method], path)
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are taken as minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
