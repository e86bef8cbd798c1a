package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheFileTTL       time.Duration
	CacheContentTTL    time.Duration
	CacheSweepInterval time.Duration

	// List tool defaults.
	ListLimit int
	MaxLimit  int

	// MaxInlineSize bounds inline API descriptions in bytes.
	MaxInlineSize int64

	// GoModule prefixes Go import paths in generated code.
	GoModule string
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from RMFCODEGEN_MCP_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:       envBool("RMFCODEGEN_MCP_CACHE_ENABLED", true),
		CacheMaxSize:       envInt("RMFCODEGEN_MCP_CACHE_MAX_SIZE", 10),
		CacheFileTTL:       envDuration("RMFCODEGEN_MCP_CACHE_FILE_TTL", 15*time.Minute),
		CacheContentTTL:    envDuration("RMFCODEGEN_MCP_CACHE_CONTENT_TTL", 15*time.Minute),
		CacheSweepInterval: envDuration("RMFCODEGEN_MCP_CACHE_SWEEP_INTERVAL", 60*time.Second),
		ListLimit:          envInt("RMFCODEGEN_MCP_LIST_LIMIT", 100),
		MaxLimit:           envInt("RMFCODEGEN_MCP_MAX_LIMIT", 1000),
		MaxInlineSize:      int64(envInt("RMFCODEGEN_MCP_MAX_INLINE_SIZE", 10<<20)),
		GoModule:           os.Getenv("RMFCODEGEN_GO_MODULE"),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
