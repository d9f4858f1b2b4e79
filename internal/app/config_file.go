package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. Pointer fields
// distinguish "unset" from an explicit false.
type FileConfig struct {
	Mode        string `yaml:"mode" json:"mode"`
	StrictPerms *bool  `yaml:"strictPerms" json:"strictPerms"`
	Verbose     *bool  `yaml:"verbose" json:"verbose"`

	Log struct {
		JSON *bool `yaml:"json" json:"json"`
	} `yaml:"log" json:"log"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays every value the file sets onto cfg. It runs before
// env and flags, which take precedence.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if strings.TrimSpace(fc.Mode) != "" {
		cfg.Mode = fc.Mode
	}
	if fc.StrictPerms != nil {
		cfg.StrictPerms = *fc.StrictPerms
	}
	if fc.Verbose != nil {
		cfg.Verbose = *fc.Verbose
	}
	if fc.Log.JSON != nil {
		cfg.LogJSON = *fc.Log.JSON
	}
}

// ValidateConfig checks that the mode is known and there is work to do.
func ValidateConfig(cfg Config) error {
	if _, err := cfg.OutputMode(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if len(cfg.Inputs) == 0 {
		return errors.New("config: at least one input file is required")
	}
	for _, in := range cfg.Inputs {
		if strings.TrimSpace(in) == "" {
			return errors.New("config: empty input path")
		}
	}
	return nil
}
