package config

import (
	"strings"
	"time"
)

// CacheConfig controls the Redis response cache in front of public catalog reads.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

func LoadCacheConfig() CacheConfig {
	ttl, err := parseDurationEnv("CACHE_TTL", "30s")
	if err != nil || ttl <= 0 {
		ttl = 30 * time.Second
	}
	maxBody, err := parseIntEnv("CACHE_MAX_BODY_BYTES", "1048576")
	if err != nil {
		maxBody = 1 << 20
	}
	return CacheConfig{
		Enabled:      parseBoolEnv("CACHE_ENABLED", "true"),
		TTL:          ttl,
		Prefix:       strings.TrimSpace(getEnv("CACHE_PREFIX", "tours-cache")),
		MaxBodyBytes: maxBody,
	}
}
