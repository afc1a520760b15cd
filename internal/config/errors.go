package config

import "errors"

// Sentinel error kinds for this package.
var (
	// ErrInvalidConfig wraps every Validate failure; the message names the
	// offending key, e.g. "imbalance_threshold".
	ErrInvalidConfig = errors.New("invalid matchbalance config")
	// ErrLoadConfig wraps failures reading the YAML, dotenv or env layers.
	ErrLoadConfig = errors.New("load matchbalance config")
)
