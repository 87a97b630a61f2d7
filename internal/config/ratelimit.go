package config

import (
	"os"
	"time"
)

// RateLimitConfig tunes the token bucket guarding the session entry
// points (register, login, refresh). The defaults allow five attempts
// per source IP every fifteen minutes.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int           // bucket size; burst allowance
	RefillTokens   int           // tokens restored per interval
	RefillInterval time.Duration // how often the bucket refills
	TTL            time.Duration // idle bucket expiry in Redis
	Prefix         string        // key namespace
}

// LoadRateLimitConfig reads the AUTH_RATE_LIMIT_* environment variables
// and clamps them to sane values.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        envBool("AUTH_RATE_LIMIT_ENABLED", true),
		Capacity:       envInt("AUTH_RATE_LIMIT_CAPACITY", 5),
		RefillTokens:   envInt("AUTH_RATE_LIMIT_REFILL_TOKENS", 5),
		RefillInterval: envDur("AUTH_RATE_LIMIT_REFILL_INTERVAL", 15*time.Minute),
		TTL:            envDur("AUTH_RATE_LIMIT_TTL", time.Hour),
		Prefix:         envStr("AUTH_RATE_LIMIT_PREFIX", "rl:auth"),
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = 15 * time.Minute
	}
	// Buckets must outlive at least one refill cycle or idle clients
	// would reset their own window.
	if cfg.TTL < 2*cfg.RefillInterval {
		cfg.TTL = 2 * cfg.RefillInterval
	}
	return cfg
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "on":
		return true
	case "0", "false", "FALSE", "no", "off":
		return false
	}
	return d
}
