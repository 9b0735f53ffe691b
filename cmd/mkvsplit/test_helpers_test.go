package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mkvsplit/internal/config"
	"mkvsplit/internal/testsupport"
)

const matroskaJSON = `{
  "container": {"recognized": true, "supported": true, "type": "Matroska", "properties": {"title": "Sample", "duration": 5400000000000}},
  "tracks": [
    {"id": 0, "type": "video", "codec": "AVC/H.264/MPEG-4p10", "properties": {"codec_id": "V_MPEG4/ISO/AVC", "language": "und", "number": 1, "default_track": true}},
    {"id": 1, "type": "audio", "codec": "AC-3", "properties": {"codec_id": "A_AC3", "language": "ger", "number": 2, "track_name": "Director/Commentary"}},
    {"id": 2, "type": "subtitles", "codec": "SubRip/SRT", "properties": {"codec_id": "S_TEXT/UTF8", "language": "eng", "forced_track": true, "number": 3}}
  ],
  "chapters": [{"num_entries": 4}],
  "errors": [],
  "warnings": []
}`

// mkvextractScript creates every output named on its command line.
const mkvextractScript = `mode=""
for arg in "$@"; do
  case "$mode:$arg" in
    *:tracks) mode=tracks ;;
    *:chapters) mode=chapters ;;
    chapters:*) : > "$arg"; mode="" ;;
    tracks:*) : > "${arg#*:}" ;;
  esac
done
echo "Progress: 100%"`

type cliTestEnv struct {
	cfg        *config.Config
	baseDir    string
	configPath string
	srcDir     string
}

// setupCLITestEnv installs stub tools, writes a config file, and creates a
// source directory holding movie.mkv.
func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("MKVSPLIT_LOG_LEVEL", "")

	jsonPath := filepath.Join(base, "identify.json")
	if err := os.WriteFile(jsonPath, []byte(matroskaJSON), 0o644); err != nil {
		t.Fatalf("write identify json: %v", err)
	}

	defaults := []testsupport.ConfigOption{
		testsupport.WithStubbedBinaries("MP4Box"),
		testsupport.WithScript("mkvmerge", fmt.Sprintf("cat %q", jsonPath)),
		testsupport.WithScript("mkvextract", mkvextractScript),
	}
	cfg := testsupport.NewConfig(t, append(defaults, opts...)...)

	srcDir := filepath.Join(base, "src")
	testsupport.WriteFile(t, filepath.Join(srcDir, "movie.mkv"), 1024)

	configPath := filepath.Join(base, "mkvsplit.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, baseDir: base, configPath: configPath, srcDir: srcDir}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	quoted := make([]string, 0, len(cfg.Extract.DefaultCategories))
	for _, c := range cfg.Extract.DefaultCategories {
		quoted = append(quoted, fmt.Sprintf("%q", c))
	}
	content := fmt.Sprintf(
		"[extract]\ndefault_categories = [%s]\n\n[paths]\nstate_dir = %q\n\n[history]\nenabled = %t\npath = %q\n\n[logging]\nlevel = \"error\"\n",
		strings.Join(quoted, ", "),
		cfg.Paths.StateDir,
		cfg.History.Enabled,
		cfg.History.Path,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\n--- output ---\n%s", needle, haystack)
	}
}

func requireExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
}
