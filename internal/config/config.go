// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers a YAML file, a dotenv file and the environment over New().
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"fmt"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// LogPath is the rolling match log (JSON Lines).
	LogPath string `koanf:"log_path"`

	// ResultPath receives the winning split of the latest matchmaking run.
	ResultPath string `koanf:"result_path"`

	// LogCapacity bounds the number of match log entries kept.
	LogCapacity int `koanf:"log_capacity"`

	// ImbalanceThreshold is the |winrate_a - 0.5| above which a match is unbalanced.
	ImbalanceThreshold float64 `koanf:"imbalance_threshold"`

	// FeatureWeights maps feature names to linear predictor weights.
	// Empty means records carry a precomputed win_ratio feature.
	FeatureWeights map[string]float64 `koanf:"feature_weights"`

	// ModelBias is the linear predictor intercept.
	ModelBias float64 `koanf:"model_bias"`

	// RosterPath is the roster document used by the batch runner.
	RosterPath string `koanf:"roster_path"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		LogPath:            "logs.json",
		ResultPath:         "best_split.json",
		LogCapacity:        10,
		ImbalanceThreshold: 0.15,
		RosterPath:         "roster.yaml",
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.LogPath) == "":
		return fmt.Errorf("%w: log_path must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.ResultPath) == "":
		return fmt.Errorf("%w: result_path must not be empty", ErrInvalidConfig)
	case c.LogCapacity <= 0:
		return fmt.Errorf("%w: log_capacity must be positive, got %d", ErrInvalidConfig, c.LogCapacity)
	case c.ImbalanceThreshold <= 0 || c.ImbalanceThreshold >= 0.5:
		return fmt.Errorf("%w: imbalance_threshold must be in (0, 0.5), got %v", ErrInvalidConfig, c.ImbalanceThreshold)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
