// Package config holds user-level envrun settings, stored as YAML under the
// config dir.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config are the defaults applied when command flags are omitted.
type Config struct {
	// Files are env files loaded in addition to the discovered ones.
	Files []string `yaml:"files,omitempty"`
	// Strict makes missing files and parse failures fatal by default.
	Strict bool `yaml:"strict,omitempty"`
	// Exclude are doublestar patterns skipped during discovery.
	Exclude []string `yaml:"exclude,omitempty"`
	// Audit disables the local audit log when false.
	Audit *bool `yaml:"audit,omitempty"`
}

func (c *Config) AuditEnabled() bool {
	return c.Audit == nil || *c.Audit
}

// Load reads the config file at path; a missing file yields the zero config.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadDefault reads the config from the standard location.
func LoadDefault() (*Config, error) {
	return Load(Path())
}

func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, out, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
