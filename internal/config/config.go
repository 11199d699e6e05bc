// Package config loads the field gallery and debug settings for infilter.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Version is the current configuration format version.
const Version = 1

// Strategy names accepted in a field's strategy key.
const (
	StrategyAuto     = "auto"
	StrategyNative   = "native"
	StrategyRange    = "range"
	StrategyEmulated = "emulated"
)

// DefaultLogFile is where debug traces go when no file is configured.
const DefaultLogFile = "infilter-debug.log"

// Config is the top-level configuration.
type Config struct {
	Version int           `toml:"version" json:"version" yaml:"version"`
	Debug   DebugConfig   `toml:"debug" json:"debug" yaml:"debug"`
	Fields  []FieldConfig `toml:"fields" json:"fields" yaml:"fields"`
}

// DebugConfig controls the event tracer.
type DebugConfig struct {
	Enabled bool   `toml:"enabled" json:"enabled" yaml:"enabled"`
	LogFile string `toml:"log_file" json:"log_file,omitempty" yaml:"log_file,omitempty"`
}

// FieldConfig describes one filtered field in the gallery.
type FieldConfig struct {
	Name     string `toml:"name" json:"name" yaml:"name"`
	Filter   string `toml:"filter" json:"filter" yaml:"filter"`
	Strategy string `toml:"strategy" json:"strategy,omitempty" yaml:"strategy,omitempty"`

	// Nil means the engine default (true).
	SelectWhenDropped *bool `toml:"select_when_dropped" json:"select_when_dropped,omitempty" yaml:"select_when_dropped,omitempty"`
	History           *bool `toml:"history" json:"history,omitempty" yaml:"history,omitempty"`

	Initial  string `toml:"initial" json:"initial,omitempty" yaml:"initial,omitempty"`
	Autofill string `toml:"autofill" json:"autofill,omitempty" yaml:"autofill,omitempty"`
}

// SelectsWhenDropped resolves SelectWhenDropped against its default.
func (f FieldConfig) SelectsWhenDropped() bool {
	return f.SelectWhenDropped == nil || *f.SelectWhenDropped
}

// HistoryEnabled resolves History against its default.
func (f FieldConfig) HistoryEnabled() bool {
	return f.History == nil || *f.History
}

// StrategyName returns the configured strategy, defaulting to auto.
func (f FieldConfig) StrategyName() string {
	if f.Strategy == "" {
		return StrategyAuto
	}
	return f.Strategy
}

func boolPtr(v bool) *bool { return &v }

// DefaultConfig returns the built-in gallery: the numeric field under each
// strategy, an uppercase name field and a telephone field with autofill.
func DefaultConfig() *Config {
	return &Config{
		Version: Version,
		Debug:   DebugConfig{LogFile: DefaultLogFile},
		Fields:  DefaultFields(),
	}
}

// DefaultFields returns the built-in field list.
func DefaultFields() []FieldConfig {
	return []FieldConfig{
		{Name: "Numeric", Filter: "digits", Strategy: StrategyAuto},
		{Name: "Numeric (range)", Filter: "digits", Strategy: StrategyRange},
		{Name: "Numeric (emulated)", Filter: "digits", Strategy: StrategyEmulated},
		{Name: "Name", Filter: "uppercase-letters", Strategy: StrategyAuto},
		{Name: "Code", Filter: "hex", Strategy: StrategyAuto, SelectWhenDropped: boolPtr(false)},
		{Name: "Telephone", Filter: "digits", Strategy: StrategyAuto, Autofill: "+553121286800"},
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Fields = make([]FieldConfig, len(c.Fields))
	for i, f := range c.Fields {
		if f.SelectWhenDropped != nil {
			f.SelectWhenDropped = boolPtr(*f.SelectWhenDropped)
		}
		if f.History != nil {
			f.History = boolPtr(*f.History)
		}
		out.Fields[i] = f
	}
	return &out
}

// ApplyEnvOverrides applies INFILTER_* environment variables.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("INFILTER_DEBUG"); v != "" {
		c.Debug.Enabled = parseBool(v)
	}
	if v := os.Getenv("INFILTER_DEBUG_FILE"); v != "" {
		c.Debug.LogFile = v
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// applyDefaults fills keys a file may leave out.
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = Version
	}
	if c.Debug.LogFile == "" {
		c.Debug.LogFile = DefaultLogFile
	}
	if len(c.Fields) == 0 {
		c.Fields = DefaultFields()
	}
	for i := range c.Fields {
		if c.Fields[i].Strategy == "" {
			c.Fields[i].Strategy = StrategyAuto
		}
	}
}

// ConfigPath returns the default config file location.
func ConfigPath() string {
	if v := os.Getenv("INFILTER_CONFIG"); v != "" {
		return v
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "infilter.toml"
	}
	return filepath.Join(dir, "infilter", "config.toml")
}
