package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries every tunable of the service. All fields have literal
// defaults so the service runs with no environment at all.
type Config struct {
	AppPort string

	// Channel is the public channel username, without the leading "@".
	Channel string

	PostsLimit      int
	CacheTTL        time.Duration
	RefreshInterval time.Duration

	// RelayURL is the URL-rewriting relay prefix the target URL gets
	// appended to. Empty means fetch the sources directly.
	RelayURL     string
	FetchTimeout time.Duration
}

func Load() *Config {
	cfg := &Config{
		AppPort:         getEnv("APP_PORT", "9000"),
		Channel:         strings.TrimPrefix(getEnv("CHANNEL_USERNAME", "BMJAN"), "@"),
		PostsLimit:      getEnvInt("POSTS_LIMIT", 10),
		CacheTTL:        getEnvDuration("CACHE_TTL", 3*time.Minute),
		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", 5*time.Minute),
		RelayURL:        getEnv("RELAY_URL", "https://api.allorigins.win/get?url="),
		FetchTimeout:    getEnvDuration("FETCH_TIMEOUT", 10*time.Second),
	}

	log.Printf("config loaded: port=%s channel=%s limit=%d ttl=%s refresh=%s",
		cfg.AppPort, cfg.Channel, cfg.PostsLimit, cfg.CacheTTL, cfg.RefreshInterval)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("warn: invalid %s=%q, using default %d", key, v, def)
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("warn: invalid %s=%q, using default %s", key, v, def)
		return def
	}
	return d
}
