package config

import "errors"

// Sentinel errors returned by Load and Validate.
var (
	// ErrInvalidConfig marks a configuration that loaded but cannot run the matcher.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig marks a failure reading the file or environment layers.
	ErrLoadConfig = errors.New("load config")
)
