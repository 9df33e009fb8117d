package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Search    SearchConfig
	Fetch     FetchConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instance used by browser engines.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// Stealth injects fingerprint-evasion JS into every new page.
	Stealth bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// DefaultProxy is the proxy URL for all browser traffic.
	DefaultProxy string

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// UserAgent overrides the default desktop Chrome user agent.
	UserAgent string

	// NavigationTimeout is the max time for a single page navigation.
	NavigationTimeout time.Duration // default: 30s

	// BlockResources lists resource kinds dropped by request interception
	// (image, stylesheet, font, media, script). "none" disables interception.
	BlockResources []string // default: image, font, media
}

// SearchConfig controls search behavior across engines.
type SearchConfig struct {
	// DefaultMaxResults caps results when the caller does not.
	DefaultMaxResults int // default: 10

	// WaitTimes is the staged render-wait schedule for browser engines.
	WaitTimes []time.Duration // default: [2s, 3s, 5s]

	// Timeout bounds one whole search operation.
	Timeout time.Duration // default: 90s
}

// FetchConfig controls the plain-HTTP client shared by HTTP engines and
// full-text extraction.
type FetchConfig struct {
	// Timeout is the per-request deadline.
	Timeout time.Duration // default: 15s

	// Proxy is the proxy URL for HTTP fetches.
	Proxy string
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per API key.
	Burst int // default: 10
}

// CacheConfig controls the query result cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached responses.
	MaxEntries int // default: 1000

	// TTL is how long an entry stays valid.
	TTL time.Duration // default: 10m
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("SEE_HOST", "0.0.0.0"),
			Port: envIntOr("SEE_PORT", 8080),
			Mode: envOr("SEE_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:          envBoolOr("SEE_HEADLESS", true),
			Stealth:           envBoolOr("SEE_STEALTH", true),
			NoSandbox:         envBoolOr("SEE_NO_SANDBOX", false),
			DefaultProxy:      os.Getenv("SEE_PROXY"),
			BrowserBin:        os.Getenv("SEE_BROWSER_BIN"),
			UserAgent:         os.Getenv("SEE_USER_AGENT"),
			NavigationTimeout: envDurationOr("SEE_NAV_TIMEOUT", 30*time.Second),
			BlockResources:    envSliceOr("SEE_BLOCK_RESOURCES", []string{"image", "font", "media"}),
		},
		Search: SearchConfig{
			DefaultMaxResults: envIntOr("SEE_MAX_RESULTS", 10),
			WaitTimes: envDurationSliceOr("SEE_WAIT_TIMES", []time.Duration{
				2 * time.Second, 3 * time.Second, 5 * time.Second,
			}),
			Timeout: envDurationOr("SEE_SEARCH_TIMEOUT", 90*time.Second),
		},
		Fetch: FetchConfig{
			Timeout: envDurationOr("SEE_FETCH_TIMEOUT", 15*time.Second),
			Proxy:   os.Getenv("SEE_FETCH_PROXY"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("SEE_AUTH_ENABLED", false),
			APIKeys: envSliceOr("SEE_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("SEE_RATE_RPS", 5.0),
			Burst:             envIntOr("SEE_RATE_BURST", 10),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("SEE_CACHE_ENTRIES", 1000),
			TTL:        envDurationOr("SEE_CACHE_TTL", 10*time.Minute),
		},
		Log: LogConfig{
			Level:  envOr("SEE_LOG_LEVEL", "info"),
			Format: envOr("SEE_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}

func envDurationSliceOr(key string, fallback []time.Duration) []time.Duration {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]time.Duration, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				if d, err := time.ParseDuration(trimmed); err == nil {
					result = append(result, d)
				}
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
