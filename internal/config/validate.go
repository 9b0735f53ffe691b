package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/shlex"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateExtract(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTools() error {
	if err := ensureNonEmptyMap(map[string]string{
		"tools.mkvmerge":   c.Tools.Mkvmerge,
		"tools.mkvextract": c.Tools.Mkvextract,
		"tools.mp4box":     c.Tools.MP4Box,
	}); err != nil {
		return err
	}
	if _, err := c.MkvextractArgs(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateExtract() error {
	if !isLanguageTag(c.Extract.DefaultLanguage) {
		return fmt.Errorf("extract.default_language %q is not a language code", c.Extract.DefaultLanguage)
	}
	for _, category := range c.Extract.DefaultCategories {
		if !slices.Contains(KnownCategories, category) {
			return fmt.Errorf("extract.default_categories: unknown category %q (want one of %s)", category, strings.Join(KnownCategories, ", "))
		}
	}
	if len(c.Extract.Extensions) == 0 {
		return errors.New("extract.extensions must include at least one extension")
	}
	for _, ext := range c.Extract.Extensions {
		if len(ext) < 2 || strings.ContainsAny(ext[1:], `./\`) {
			return fmt.Errorf("extract.extensions: invalid extension %q", ext)
		}
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.Enabled && strings.TrimSpace(c.History.Path) == "" {
		return errors.New("history.path must be set when history.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
}

// MkvextractArgs splits tools.mkvextract_args using shell quoting rules.
func (c *Config) MkvextractArgs() ([]string, error) {
	if strings.TrimSpace(c.Tools.MkvextractArgs) == "" {
		return nil, nil
	}
	args, err := shlex.Split(c.Tools.MkvextractArgs)
	if err != nil {
		return nil, fmt.Errorf("tools.mkvextract_args: %w", err)
	}
	return args, nil
}

func isLanguageTag(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}

func ensureNonEmptyMap(values map[string]string) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		if strings.TrimSpace(values[key]) == "" {
			return fmt.Errorf("%s must be set", key)
		}
	}
	return nil
}
