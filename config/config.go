// Package config reads the questforge YAML configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/questforge/engine"
)

// Config holds run and program settings.
type Config struct {
	Seed          int64    `yaml:"seed"`
	Difficulty    string   `yaml:"difficulty"`
	ShuffleEnemy  bool     `yaml:"shuffle_enemy"`
	MaxAttempts   int      `yaml:"max_attempts"`
	Capacity      int      `yaml:"capacity"` // 0 uses the preset capacity
	StartingItems []string `yaml:"starting_items"`
	NodeLimit     int      `yaml:"node_limit"`
	ContentDir    string   `yaml:"content_dir"`
	LogLevel      string   `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.fillDefaults()
	return cfg
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.fillDefaults()

	if _, err := cfg.Level(); err != nil {
		return nil, err
	}
	if cfg.Capacity < 0 || cfg.MaxAttempts < 0 || cfg.NodeLimit < 0 {
		return nil, fmt.Errorf("config %s: capacity, max_attempts and node_limit must not be negative", path)
	}
	return &cfg, nil
}

func (c *Config) fillDefaults() {
	if c.Difficulty == "" {
		c.Difficulty = "EASY"
	}
	c.Difficulty = strings.ToUpper(c.Difficulty)
	if c.MaxAttempts == 0 {
		c.MaxAttempts = engine.DefaultMaxAttempts
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log_level: %w", err)
	}
	return l, nil
}

// Engine converts the run settings for engine.New.
func (c *Config) Engine(log *slog.Logger) engine.Config {
	return engine.Config{
		Seed:          c.Seed,
		Difficulty:    c.Difficulty,
		ShuffleEnemy:  c.ShuffleEnemy,
		MaxAttempts:   c.MaxAttempts,
		Capacity:      c.Capacity,
		StartingItems: append([]string(nil), c.StartingItems...),
		NodeLimit:     c.NodeLimit,
		Logger:        log,
	}
}
