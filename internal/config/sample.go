package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"mkvsplit/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig []byte

// ErrConfigExists is returned by CreateSample when the target is already
// present and overwrite is false.
var ErrConfigExists = errors.New("config file already exists")

// CreateSample writes the annotated sample config to path, creating parent
// directories.
func CreateSample(path string, overwrite bool) error {
	if !overwrite && fileutil.Exists(path) {
		return fmt.Errorf("%w at %s", ErrConfigExists, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, sampleConfig, 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
