package api

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the account server settings. LoadConfig fills it from SS_*
// environment variables.
type Config struct {
	ListenAddr      string
	DBPath          string
	DBDriver        string // "sqlite" (modernc, default) or "sqlite3" (cgo)
	ShutdownTimeout time.Duration
	LogFormat       string // "json" (default) or "text"
	LogLevel        string // debug, info (default), warn, error

	JWTSecret string        // random per process when empty
	TokenTTL  time.Duration // login token lifetime

	RateLimitAuth int // /api/auth/* calls per IP per minute

	CORSAllowedOrigins []string // empty disables CORS headers

	AuthEventRetention      time.Duration
	RateLimitEventRetention time.Duration
}

// DefaultConfig is the configuration with no environment overrides
func DefaultConfig() Config {
	return Config{
		ListenAddr:              ":8080",
		DBPath:                  "./data/smartsearch.db",
		DBDriver:                "sqlite",
		ShutdownTimeout:         30 * time.Second,
		LogFormat:               "json",
		LogLevel:                "info",
		TokenTTL:                24 * time.Hour,
		RateLimitAuth:           10,
		AuthEventRetention:      90 * 24 * time.Hour,
		RateLimitEventRetention: 30 * 24 * time.Hour,
	}
}

// LoadConfig applies the SS_* environment on top of DefaultConfig. Values
// that do not parse keep the default.
func LoadConfig() Config {
	cfg := DefaultConfig()

	envString("SS_LISTEN_ADDR", &cfg.ListenAddr)
	envString("SS_DB_PATH", &cfg.DBPath)
	envString("SS_DB_DRIVER", &cfg.DBDriver)
	envString("SS_LOG_FORMAT", &cfg.LogFormat)
	envString("SS_LOG_LEVEL", &cfg.LogLevel)
	envString("SS_JWT_SECRET", &cfg.JWTSecret)

	envDuration("SS_SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout)
	envDuration("SS_TOKEN_TTL", &cfg.TokenTTL)
	envDuration("SS_AUTH_EVENT_RETENTION", &cfg.AuthEventRetention)
	envDuration("SS_RATE_LIMIT_EVENT_RETENTION", &cfg.RateLimitEventRetention)

	envInt("SS_RATE_LIMIT_AUTH", &cfg.RateLimitAuth)

	if v := os.Getenv("SS_CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = splitList(v)
	}
	return cfg
}

func envString(name string, dst *string) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		*dst = v
	}
}

func envInt(name string, dst *int) {
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(name))); err == nil && n > 0 {
		*dst = n
	}
}

func envDuration(name string, dst *time.Duration) {
	if d := parseDays(os.Getenv(name)); d > 0 {
		*dst = d
	}
}

// parseDays accepts "90d" as well as any Go duration. Zero means invalid.
func parseDays(s string) time.Duration {
	s = strings.TrimSpace(s)
	if n, ok := strings.CutSuffix(s, "d"); ok {
		if days, err := strconv.Atoi(n); err == nil && days > 0 {
			return time.Duration(days) * 24 * time.Hour
		}
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
