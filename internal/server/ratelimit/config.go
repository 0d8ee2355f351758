package ratelimit

import (
	"os"
	"strconv"
	"time"
)

// Tier is a rate limit applying to requests matched by path prefix + method.
type Tier struct {
	name   string
	Path   string
	Method string
	Limit  int // requests per Window
	Window time.Duration
	Burst  int
}

// Config holds limiter settings.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Tiers           []Tier
}

// LoadConfig reads limiter settings from the environment.
// RATE_LIMIT_ENABLED, RATE_LIMIT_DEFAULT_LIMIT, RATE_LIMIT_DEFAULT_WINDOW
// and RATE_LIMIT_CLEANUP_INTERVAL are honored; tier shapes are fixed.
func LoadConfig() *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 300),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Tiers:           defaultTiers(),
	}
}

// defaultTiers orders tiers strictest-first; matching stops at the first hit.
func defaultTiers() []Tier {
	return []Tier{
		// Analysis runs burn provider quota.
		{name: "analyze", Path: "/api/analyze", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		// Token issuance is a brute-force target.
		{name: "auth", Path: "/api/auth/", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
	}
}

func (c *Config) defaultTier() Tier {
	return Tier{name: "default", Limit: c.DefaultLimit, Window: c.DefaultWindow, Burst: c.DefaultLimit}
}

func getEnvBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
