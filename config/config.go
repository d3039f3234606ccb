// Package config provides configuration loading and management for shortcheck.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete shortcheck configuration
type Config struct {
	Report ReportConfig `yaml:"report"`
	// NameMap overrides the roster name for a netid, for students whose
	// preferred name differs from the registrar record.
	NameMap map[string]string `yaml:"name_map"`
	// IgnoredIDs lists netids to leave out of the rendered report
	// (drops, audits, test accounts).
	IgnoredIDs []string `yaml:"ignored_ids"`
}

// ReportConfig configures PDF report rendering
type ReportConfig struct {
	// Font is the report font family (a PDF core font, default: Courier)
	Font string `yaml:"font"`
	// FontSize is the report font size in points
	FontSize float64 `yaml:"font_size"`
	// MaxCodeLines caps how many submission lines are rendered per problem page
	MaxCodeLines int `yaml:"max_code_lines"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Report: ReportConfig{
			Font:         "Courier",
			FontSize:     10,
			MaxCodeLines: 28,
		},
		NameMap:    map[string]string{},
		IgnoredIDs: nil,
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Report.Font == "" {
		return fmt.Errorf("report.font is required")
	}
	if c.Report.FontSize <= 0 {
		return fmt.Errorf("report.font_size must be positive")
	}
	if c.Report.MaxCodeLines <= 0 {
		return fmt.Errorf("report.max_code_lines must be positive")
	}
	return nil
}

// IgnoredSet returns the ignored netids as a set for membership checks
func (c *Config) IgnoredSet() map[string]bool {
	set := make(map[string]bool, len(c.IgnoredIDs))
	for _, id := range c.IgnoredIDs {
		set[id] = true
	}
	return set
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Report
	if other.Report.Font != "" {
		c.Report.Font = other.Report.Font
	}
	if other.Report.FontSize != 0 {
		c.Report.FontSize = other.Report.FontSize
	}
	if other.Report.MaxCodeLines != 0 {
		c.Report.MaxCodeLines = other.Report.MaxCodeLines
	}

	// Roster adjustments
	for id, name := range other.NameMap {
		c.NameMap[id] = name
	}
	if len(other.IgnoredIDs) > 0 {
		c.IgnoredIDs = other.IgnoredIDs
	}
}
