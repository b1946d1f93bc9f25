// Package config loads the optional .mlox.yml file that sits next to
// a plugin data directory. Absence of the file is never an error:
// every field has a zero value meaning "use the built-in default",
// and CLI flags always override whatever this file says.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default rule file names, used when .mlox.yml doesn't override them.
const (
	DefaultUserRuleFile = "mloxuser.txt"
	DefaultBaseRuleFile = "mlox_base.txt"
)

// Config is the optional .mlox.yml shape.
type Config struct {
	// DataDir overrides the game data directory the active-plugin
	// source scans, instead of relying on game-directory discovery.
	DataDir string `yaml:"dataDir"`

	// UserRuleFile and BaseRuleFile override the default rule file
	// names the driver looks for next to DataDir.
	UserRuleFile string `yaml:"userRuleFile"`
	BaseRuleFile string `yaml:"baseRuleFile"`

	// Quiet and Debug set the default for -q/-d when the corresponding
	// CLI flag isn't passed explicitly.
	Quiet bool `yaml:"quiet"`
	Debug bool `yaml:"debug"`
}

// Load reads and parses path. A missing file is not an error: it
// returns a zero-value Config whose fields all mean "use the
// default", so callers don't need to special-case "file absent".
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return &cfg, nil
}

// EffectiveUserRuleFile returns cfg's override or the built-in default.
// A nil cfg (no .mlox.yml loaded) behaves like a zero-value one.
func (cfg *Config) EffectiveUserRuleFile() string {
	if cfg != nil && cfg.UserRuleFile != "" {
		return cfg.UserRuleFile
	}
	return DefaultUserRuleFile
}

// EffectiveBaseRuleFile returns cfg's override or the built-in default.
func (cfg *Config) EffectiveBaseRuleFile() string {
	if cfg != nil && cfg.BaseRuleFile != "" {
		return cfg.BaseRuleFile
	}
	return DefaultBaseRuleFile
}
