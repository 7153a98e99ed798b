// Package config resolves run settings from defaults, an optional YAML file
// and CONTROLREPORT_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "CONTROLREPORT_"

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds everything a render needs.
type Config struct {
	// Metadata is the profile metadata file (YAML or JSON).
	Metadata string `yaml:"metadata"`
	// Events is the JSON-lines event file; "-" reads stdin.
	Events string `yaml:"events"`
	// Output is where the document is written; empty skips the document.
	Output   string `yaml:"output"`
	Format   string `yaml:"format"`
	Color    string `yaml:"color"`
	Target   string `yaml:"target"`
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Events:   "-",
		Format:   "json",
		Color:    ColorAuto,
		LogLevel: "info",
	}
}

// Load reads path over the defaults and then applies environment overrides.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// ApplyEnv overrides fields from CONTROLREPORT_<FIELD> variables. Set but
// empty variables clear the field.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	fields := map[string]*string{
		"METADATA":  &c.Metadata,
		"EVENTS":    &c.Events,
		"OUTPUT":    &c.Output,
		"FORMAT":    &c.Format,
		"COLOR":     &c.Color,
		"TARGET":    &c.Target,
		"LOG_LEVEL": &c.LogLevel,
	}
	for name, dst := range fields {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Metadata) == "" {
		problems = append(problems, "metadata is required")
	}
	if strings.TrimSpace(c.Events) == "" {
		problems = append(problems, `events is required (use "-" for stdin)`)
	}
	switch strings.ToLower(c.Format) {
	case "json", "yaml", "yml":
	default:
		problems = append(problems, fmt.Sprintf("format %q must be json or yaml", c.Format))
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		problems = append(problems, fmt.Sprintf("color %q must be auto, always or never", c.Color))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log_level %q must be debug, info, warn or error", c.LogLevel))
	}
	if len(problems) > 0 {
		return errors.New("config validation failed: " + strings.Join(problems, "; "))
	}
	return nil
}

// UseColor resolves the color mode given whether stdout is a terminal.
func (c *Config) UseColor(terminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return terminal
	}
}
