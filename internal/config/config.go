// Package config holds all sampler configuration.
package config

import "fmt"

// Run modes. Infer mode suppresses trajectory storage unless ForceStore is
// set.
const (
	ModeTrain = "train"
	ModeInfer = "infer"
)

// Config holds all sampler configuration.
type Config struct {
	// Identity
	ID int `mapstructure:"id"`

	// Environment and estimator shape
	Actions    int `mapstructure:"actions"`
	HistoryLen int `mapstructure:"history_len"`

	// Episode management
	BufferCapacity int    `mapstructure:"buffer_capacity"`
	SyncPeriod     int    `mapstructure:"sync_period"`
	Mode           string `mapstructure:"mode"`
	EpisodeLimit   int    `mapstructure:"episode_limit"`
	ForceStore     bool   `mapstructure:"force_store"`

	// Weight backend: exactly one of CheckpointPath or RedisAddr.
	CheckpointPath string `mapstructure:"checkpoint_path"`
	RedisAddr      string `mapstructure:"redis_addr"`
	RedisPrefix    string `mapstructure:"redis_prefix"`

	// Exploration schedule
	EpsInit    float64 `mapstructure:"eps_init"`
	EpsFinal   float64 `mapstructure:"eps_final"`
	DecaySteps int     `mapstructure:"decay_steps"`

	// Seeding
	SeedPool []int64 `mapstructure:"seed_pool"`

	// Logging
	LogLevel string `mapstructure:"log_level"`
}

// Default returns a config with sensible defaults.
func Default() *Config {
	return &Config{
		ID:             0,
		Actions:        2,
		HistoryLen:     1,
		BufferCapacity: 10000,
		SyncPeriod:     1,
		Mode:           ModeInfer,
		EpisodeLimit:   0, // unlimited
		RedisAddr:      "localhost:6379",
		RedisPrefix:    "sampler",
		EpsInit:        1.0,
		EpsFinal:       0.05,
		DecaySteps:     1000000,
		LogLevel:       "info",
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Actions < 1 {
		return fmt.Errorf("actions must be at least 1")
	}
	if c.HistoryLen < 1 {
		return fmt.Errorf("history_len must be at least 1")
	}
	if c.BufferCapacity <= 0 {
		return fmt.Errorf("buffer_capacity must be positive")
	}
	if c.SyncPeriod < 1 {
		return fmt.Errorf("sync_period must be at least 1")
	}
	if c.Mode != ModeTrain && c.Mode != ModeInfer {
		return fmt.Errorf("mode must be %q or %q", ModeTrain, ModeInfer)
	}
	if c.CheckpointPath == "" && c.RedisAddr == "" {
		return fmt.Errorf("one of checkpoint_path or redis_addr is required")
	}
	if c.CheckpointPath != "" && c.RedisAddr != "" {
		return fmt.Errorf("checkpoint_path and redis_addr are mutually exclusive")
	}
	if c.EpsInit < c.EpsFinal {
		return fmt.Errorf("eps_init must be at least eps_final")
	}
	if c.EpsFinal < 0 {
		return fmt.Errorf("eps_final must be non-negative")
	}
	if c.DecaySteps <= 0 {
		return fmt.Errorf("decay_steps must be positive")
	}
	if c.EpisodeLimit < 0 {
		return fmt.Errorf("episode_limit must be non-negative")
	}
	return nil
}
