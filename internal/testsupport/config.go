package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"mkvsplit/internal/config"
)

// defaultTools are stubbed when WithStubbedBinaries is given no names.
var defaultTools = []string{"mkvmerge", "mkvextract", "MP4Box"}

// ConfigOption adjusts a fixture built by NewConfig.
type ConfigOption func(*fixture)

type fixture struct {
	t    testing.TB
	root string
	cfg  config.Config
}

// NewConfig returns defaults rooted in a fresh temp directory: state and the
// history database live under <tmp>/state, file logging is off and no
// default categories are set.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	fx := &fixture{t: t, root: t.TempDir(), cfg: config.Default()}
	state := filepath.Join(fx.root, "state")
	fx.cfg.Paths.StateDir = state
	fx.cfg.Paths.LogDir = ""
	fx.cfg.History.Path = filepath.Join(state, "history.db")
	fx.cfg.Extract.DefaultCategories = nil

	for _, opt := range opts {
		opt(fx)
	}
	return &fx.cfg
}

// WithHistoryDisabled turns the extraction ledger off.
func WithHistoryDisabled() ConfigOption {
	return func(fx *fixture) { fx.cfg.History.Enabled = false }
}

// WithDefaultCategories sets extract.default_categories.
func WithDefaultCategories(categories ...string) ConfigOption {
	return func(fx *fixture) {
		fx.cfg.Extract.DefaultCategories = append([]string(nil), categories...)
	}
}

// WithStubbedBinaries puts no-op executables for names on PATH, defaulting
// to the MKVToolNix pair plus MP4Box.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(fx *fixture) {
		if len(names) == 0 {
			names = defaultTools
		}
		for _, name := range names {
			fx.script(name, "exit 0")
		}
	}
}

// WithScript puts a /bin/sh script called name on PATH.
func WithScript(name, body string) ConfigOption {
	return func(fx *fixture) { fx.script(name, body) }
}

func (fx *fixture) script(name, body string) {
	fx.t.Helper()
	bin := filepath.Join(fx.root, "bin")
	if err := os.MkdirAll(bin, 0o755); err != nil {
		fx.t.Fatalf("mkdir %s: %v", bin, err)
	}
	if err := os.WriteFile(filepath.Join(bin, name), []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		fx.t.Fatalf("write script %s: %v", name, err)
	}
	path := os.Getenv("PATH")
	if !onPath(path, bin) {
		fx.t.Setenv("PATH", bin+string(os.PathListSeparator)+path)
	}
}

func onPath(path, dir string) bool {
	for _, entry := range filepath.SplitList(path) {
		if entry == dir {
			return true
		}
	}
	return false
}

// BaseDir returns the temp root a NewConfig result was built in.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
