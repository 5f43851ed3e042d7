package config

import (
	"os"
	"strconv"
	"strings"
)

// applyEnv layers environment overrides on top of file/default values.
// PORT keeps its historical meaning from the original deployment.
func (c *Config) applyEnv() {
	if v := getenv("HOST", ""); v != "" {
		c.Server.Host = v
	}
	setIntFromEnv("PORT", func(n int) { c.Server.Port = n })
	setToggleFromEnv("DEBUG", func(b bool) { c.Security.Debug = b })
	if v := getenv("LOG_FILE", ""); v != "" {
		c.Security.LogFile = v
	}
	if v := getenv("POOL_STRATEGY", ""); v != "" {
		c.Pool.Strategy = v
	}
	setIntFromEnv("POOL_MAX_ERRORS", func(n int) { c.Pool.MaxErrors = n })
	setIntFromEnv("UPSTREAM_INIT_TIMEOUT_SEC", func(n int) { c.Upstream.InitTimeoutSec = n })
	setIntFromEnv("UPSTREAM_GENERATE_TIMEOUT_SEC", func(n int) { c.Upstream.GenerateTimeoutSec = n })
	if v := getenv("UPSTREAM_USER_AGENT", ""); v != "" {
		c.Upstream.UserAgent = v
	}
	setIntFromEnv("STREAM_WORD_DELAY_MS", func(n int) { c.Streaming.WordDelayMS = n })
	setToggleFromEnv("RATE_LIMIT_ENABLED", func(b bool) { c.RateLimit.Enabled = b })
	setIntFromEnv("RATE_LIMIT_RPS", func(n int) { c.RateLimit.RPS = n })
	setIntFromEnv("RATE_LIMIT_BURST", func(n int) { c.RateLimit.Burst = n })
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func setIntFromEnv(key string, setter func(int)) {
	if v := getenv(key, ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			setter(n)
		}
	}
}

func setToggleFromEnv(key string, setter func(bool)) {
	v := strings.ToLower(strings.TrimSpace(getenv(key, "")))
	if v == "" {
		return
	}
	switch v {
	case "1", "true", "yes", "on":
		setter(true)
	case "0", "false", "no", "off":
		setter(false)
	}
}
