// Package config implements the layered CLI configuration (flags > env >
// defaults) for the amikodb builder, following the teacher's viper idiom
// (SetDefault/BindEnv/Unmarshal/Validate).
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

var validLanguages = map[string]bool{"de": true, "fr": true, "it": true, "en": true}

// Config is the fully resolved CLI configuration (spec §6's flag table).
type Config struct {
	InDir   string `mapstructure:"IN_DIR"`
	Lang    string `mapstructure:"LANG"`
	Verbose bool   `mapstructure:"VERBOSE"`
	XML     bool   `mapstructure:"XML"`
	Pinfo   bool   `mapstructure:"PINFO"`

	// Accepted-but-inert flags (spec §6: "accepted; no core behaviour").
	Pseudo  bool `mapstructure:"PSEUDO"`
	Inter   bool `mapstructure:"INTER"`
	GLN     bool `mapstructure:"GLN"`
	Shop    bool `mapstructure:"SHOP"`
	Zurrose bool `mapstructure:"ZURROSE"`
	Desitin bool `mapstructure:"DESITIN"`
	Reports bool `mapstructure:"REPORTS"`
}

// Load builds a Config from CLI flags (already bound into v by the caller,
// e.g. cmd/cpp2sqlite/main.go binding cobra.Command flags via
// v.BindPFlag), environment variables, and defaults, in that precedence
// order — the same layering as the teacher's internal/config.Load.
func Load(v *viper.Viper) (*Config, error) {
	v.SetDefault("LANG", "de")
	v.SetDefault("VERBOSE", false)
	v.SetDefault("XML", false)
	v.SetDefault("PINFO", false)
	v.SetDefault("PSEUDO", false)
	v.SetDefault("INTER", false)
	v.SetDefault("GLN", false)
	v.SetDefault("SHOP", false)
	v.SetDefault("ZURROSE", false)
	v.SetDefault("DESITIN", false)
	v.SetDefault("REPORTS", false)

	v.BindEnv("IN_DIR")
	v.BindEnv("LANG")
	v.BindEnv("VERBOSE")
	v.BindEnv("XML")
	v.BindEnv("PINFO")
	v.BindEnv("PSEUDO")
	v.BindEnv("INTER")
	v.BindEnv("GLN")
	v.BindEnv("SHOP")
	v.BindEnv("ZURROSE")
	v.BindEnv("DESITIN")
	v.BindEnv("REPORTS")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is safe to run (spec §6:
// "--inDir <path> required; --lang {de,fr,it,en}, default de").
func (c *Config) Validate() error {
	if c.InDir == "" {
		return fmt.Errorf("config: --inDir is required")
	}
	if !validLanguages[c.Lang] {
		return fmt.Errorf("config: --lang must be one of de, fr, it, en, got %q", c.Lang)
	}
	return nil
}

// MedicineType returns the AIPS document type this run selects: "pi"
// (patient information) when --pinfo is set, "fi" (professional
// information) otherwise (spec §6).
func (c *Config) MedicineType() string {
	if c.Pinfo {
		return "pi"
	}
	return "fi"
}
