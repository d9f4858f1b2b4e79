package app

import (
	"os"
	"strings"
)

// Environment variables read by the command line layer.
const (
	EnvConfig      = "HTMLSTRING_CONFIG"
	EnvMode        = "HTMLSTRING_MODE"
	EnvVerbose     = "HTMLSTRING_VERBOSE"
	EnvStrictPerms = "HTMLSTRING_STRICT_PERMS"
	EnvLogJSON     = "HTMLSTRING_LOG_JSON"
)

// ApplyEnvOverrides overrides cfg fields with environment variables when they
// are set. Env takes precedence over a config file; flags are applied after
// and win over both.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	if v := strings.TrimSpace(os.Getenv(EnvMode)); v != "" {
		cfg.Mode = v
	}

	// Booleans override when env present and truthy/falsey
	setBool := func(dst *bool, envKey string) {
		if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
			switch s {
			case "1", "true", "yes", "on":
				*dst = true
			case "0", "false", "no", "off":
				*dst = false
			}
		}
	}
	setBool(&cfg.Verbose, EnvVerbose)
	setBool(&cfg.StrictPerms, EnvStrictPerms)
	setBool(&cfg.LogJSON, EnvLogJSON)
}
