package app

import (
	"github.com/hyperifyio/htmlstring/internal/encode"
)

// Config holds runtime configuration for the application.
type Config struct {
	// Inputs are the HTML files to convert, already resolved by the caller.
	Inputs []string

	// Output
	Mode        string
	StrictPerms bool

	// Behavior
	Watch   bool
	Verbose bool
	LogJSON bool
}

// Default values used when neither flags, env nor a config file set them.
const (
	DefaultMode = "json"
)

// DefaultConfig returns the configuration used before any overlay.
func DefaultConfig() Config {
	return Config{Mode: DefaultMode}
}

// OutputMode parses the configured artifact mode.
func (c Config) OutputMode() (encode.Mode, error) {
	return encode.ParseMode(c.Mode)
}
