package config

import (
	"fmt"
	"strings"
)

// Validate performs rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Storage.Path) == "" {
		return fmt.Errorf("storage.path must not be empty")
	}
	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.Affix.validate(); err != nil {
		return fmt.Errorf("affix: %w", err)
	}
	if c.Display.MaxResults < 0 || c.Display.MaxList < 0 {
		return fmt.Errorf("display: limits must be >= 0 (got %d, %d)", c.Display.MaxResults, c.Display.MaxList)
	}
	if c.Harvest.Workers < 1 {
		return fmt.Errorf("harvest: workers must be >= 1 (got %d)", c.Harvest.Workers)
	}
	if c.Harvest.MaxBodyBytes <= 0 {
		return fmt.Errorf("harvest: max_body_bytes must be > 0 (got %d)", c.Harvest.MaxBodyBytes)
	}
	return nil
}

func (l *LogConfig) validate() error {
	switch strings.ToLower(l.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("format must be text or json (got %q)", l.Format)
	}
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown level %q", l.Level)
	}
	return nil
}

func (a *AffixConfig) validate() error {
	if a.MinLength < 1 {
		return fmt.Errorf("min_length must be >= 1 (got %d)", a.MinLength)
	}
	if a.MaxLength != 0 && a.MaxLength < a.MinLength {
		return fmt.Errorf("max_length must be 0 or >= min_length (got %d)", a.MaxLength)
	}
	if a.MinRoot < 1 {
		return fmt.Errorf("min_root must be >= 1 (got %d)", a.MinRoot)
	}
	if a.MinFrequency < 0 {
		return fmt.Errorf("min_frequency must be >= 0 (got %d)", a.MinFrequency)
	}
	return nil
}
