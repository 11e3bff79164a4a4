package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Idle      IdleConfig
	Terminal  TerminalConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8090"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// IdleConfig holds idle detection loop configuration. The defaults mirror
// the tuning the heuristics were calibrated against: poll every 350ms and
// report idle after a full second below 1% CPU.
type IdleConfig struct {
	CadenceMS    int     `envconfig:"IDLE_CADENCE_MS" default:"350"`
	IdleAfterMS  int     `envconfig:"IDLE_AFTER_MS" default:"1000"`
	CPUThreshold float64 `envconfig:"IDLE_CPU_THRESHOLD" default:"1.0"`
	MaxWaitMS    int     `envconfig:"IDLE_MAX_WAIT_MS" default:"0"`
}

// Cadence returns the poll cadence as a duration.
func (c IdleConfig) Cadence() time.Duration { return time.Duration(c.CadenceMS) * time.Millisecond }

// IdleAfter returns the sustained sub-threshold duration as a duration.
func (c IdleConfig) IdleAfter() time.Duration { return time.Duration(c.IdleAfterMS) * time.Millisecond }

// MaxWait returns the wait cap as a duration; zero means uncapped.
func (c IdleConfig) MaxWait() time.Duration { return time.Duration(c.MaxWaitMS) * time.Millisecond }

// TerminalConfig holds terminal session configuration.
type TerminalConfig struct {
	Shell      string `envconfig:"TERMINAL_SHELL" default:""`
	BufferSize int    `envconfig:"TERMINAL_BUFFER_SIZE" default:"1048576"`
	Cols       int    `envconfig:"TERMINAL_COLS" default:"80"`
	Rows       int    `envconfig:"TERMINAL_ROWS" default:"24"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8090",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Idle: IdleConfig{
			CadenceMS:    350,
			IdleAfterMS:  1000,
			CPUThreshold: 1.0,
			MaxWaitMS:    0,
		},
		Terminal: TerminalConfig{
			Shell:      "",
			BufferSize: 1024 * 1024,
			Cols:       80,
			Rows:       24,
		},
	}
}
