package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the runtime configuration for the gateway.
// Values come from an optional YAML file, then environment overrides.
// Cookie credentials are never part of this struct; they are loaded
// separately from the environment by the credential package.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Security  SecurityConfig  `yaml:"security"`
	Pool      PoolConfig      `yaml:"pool"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Streaming StreamingConfig `yaml:"streaming"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// SecurityConfig controls logging and debug behavior.
type SecurityConfig struct {
	Debug   bool   `yaml:"debug"`
	LogFile string `yaml:"log_file"`
}

// PoolConfig controls credential selection and health thresholds.
type PoolConfig struct {
	// Strategy is one of round_robin, random, least_recently_used.
	// Unknown values fall back to round_robin at selection time.
	Strategy string `yaml:"strategy"`
	// MaxErrors is the consecutive-failure threshold after which a
	// cookie is marked unavailable.
	MaxErrors int `yaml:"max_errors"`
}

// UpstreamConfig controls the Gemini web client.
type UpstreamConfig struct {
	InitTimeoutSec     int    `yaml:"init_timeout_sec"`
	GenerateTimeoutSec int    `yaml:"generate_timeout_sec"`
	UserAgent          string `yaml:"user_agent"`
}

// StreamingConfig controls word-level pseudo streaming.
type StreamingConfig struct {
	WordDelayMS int `yaml:"word_delay_ms"`
}

// RateLimitConfig controls optional per-client request throttling.
type RateLimitConfig struct {
	Enabled bool `yaml:"enabled"`
	RPS     int  `yaml:"rps"`
	Burst   int  `yaml:"burst"`
}

// Defaults mirrors the original service behavior.
func Defaults() *Config {
	return &Config{
		Server:    ServerConfig{Host: "0.0.0.0", Port: 50014},
		Pool:      PoolConfig{Strategy: "round_robin", MaxErrors: 3},
		Upstream:  UpstreamConfig{InitTimeoutSec: 30, GenerateTimeoutSec: 300},
		Streaming: StreamingConfig{WordDelayMS: 50},
		RateLimit: RateLimitConfig{Enabled: false, RPS: 10, Burst: 20},
	}
}

// Load reads the optional YAML file at path (a missing file is not an
// error), applies environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Pool.MaxErrors <= 0 {
		c.Pool.MaxErrors = 3
	}
	if c.Upstream.InitTimeoutSec <= 0 {
		c.Upstream.InitTimeoutSec = 30
	}
	if c.Upstream.GenerateTimeoutSec <= 0 {
		c.Upstream.GenerateTimeoutSec = 300
	}
	if c.Streaming.WordDelayMS < 0 {
		c.Streaming.WordDelayMS = 0
	}
	return nil
}

// InitTimeout returns the session-initialization timeout as a duration.
func (c *Config) InitTimeout() time.Duration {
	return time.Duration(c.Upstream.InitTimeoutSec) * time.Second
}

// GenerateTimeout returns the content-generation timeout as a duration.
func (c *Config) GenerateTimeout() time.Duration {
	return time.Duration(c.Upstream.GenerateTimeoutSec) * time.Second
}

// WordDelay returns the inter-chunk pacing delay for pseudo streaming.
func (c *Config) WordDelay() time.Duration {
	return time.Duration(c.Streaming.WordDelayMS) * time.Millisecond
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
