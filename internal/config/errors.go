package config

import "errors"

var (
	// ErrUnknownKey indicates a configuration key that is not supported.
	ErrUnknownKey = errors.New("unknown config key")

	// ErrInvalidFile indicates the config file is not valid YAML or has unknown fields.
	ErrInvalidFile = errors.New("invalid config file")
)
