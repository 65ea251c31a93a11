// Package config handles on-disk default loading for gqlscan.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is gqlscan's on-disk defaults: the values a repeated scan of
// the same target/environment doesn't want re-typed on every CLI
// invocation. CLI flags always override these.
type Config struct {
	Headers        map[string]string `yaml:"headers"`
	Proxy          string            `yaml:"proxy"`
	WordlistPaths  []string          `yaml:"wordlist_paths"`
	WordlistFields []string          `yaml:"wordlist_fields"`
	ExcludedProbes []string          `yaml:"excluded_probes"`
	Debug          bool              `yaml:"debug"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &cfg, nil
}

// Merge layers CLI-flag overrides onto the file-loaded defaults: any
// non-zero field in override wins, and slice/map fields from override
// replace (not append to) the base's.
func (c *Config) Merge(override Config) Config {
	merged := *c

	if override.Proxy != "" {
		merged.Proxy = override.Proxy
	}
	if override.Debug {
		merged.Debug = true
	}
	if len(override.Headers) > 0 {
		merged.Headers = override.Headers
	}
	if len(override.WordlistPaths) > 0 {
		merged.WordlistPaths = override.WordlistPaths
	}
	if len(override.WordlistFields) > 0 {
		merged.WordlistFields = override.WordlistFields
	}
	if len(override.ExcludedProbes) > 0 {
		merged.ExcludedProbes = override.ExcludedProbes
	}

	return merged
}
