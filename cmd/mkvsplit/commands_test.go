package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mkvsplit/internal/testsupport"
)

func TestConfigInitAndValidate(t *testing.T) {
	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(base, "state"))
	target := filepath.Join(base, "conf", "mkvsplit.toml")

	stdout, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, stdout, "Wrote sample configuration to "+target)
	requireExists(t, target)

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config exists")
	}

	stdout, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, stdout, "Config path: "+target)
	requireContains(t, stdout, "Configuration valid")
}

func TestConfigValidateRejectsUnknownKeys(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "bad.toml")
	if err := os.WriteFile(path, []byte("[extract]\nflavour = \"spicy\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, err := runCLI(t, []string{"config", "validate"}, path); err == nil {
		t.Fatal("expected unknown key to fail validation")
	}
}

func TestLogLevelFlagRejectsUnknownLevel(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"--log-level", "loud", "status"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "--log-level") {
		t.Fatalf("expected --log-level error, got %v", err)
	}
}

func TestStatusReportsToolchain(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, stdout, "== Toolchain ==")
	requireContains(t, stdout, "mkvmerge:")
	requireContains(t, stdout, "[OK]")
	requireContains(t, stdout, "State directory:")
	requireContains(t, stdout, "created on first extraction")
}

func TestHistoryClear(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"--audio", env.srcDir}, env.configPath); err != nil {
		t.Fatalf("extract: %v", err)
	}

	stdout, _, err := runCLI(t, []string{"history", "clear"}, env.configPath)
	if err != nil {
		t.Fatalf("history clear: %v", err)
	}
	requireContains(t, stdout, "Removed 0 entries")

	stdout, _, err = runCLI(t, []string{"history", "clear", "--all"}, env.configPath)
	if err != nil {
		t.Fatalf("history clear --all: %v", err)
	}
	requireContains(t, stdout, "Removed 1 entry")

	stdout, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, stdout, "No extractions recorded")
}

func TestSnapstreamWritesSidecar(t *testing.T) {
	env := setupCLITestEnv(t)
	src := filepath.Join(env.baseDir, "recordings")
	dst := filepath.Join(env.baseDir, "library")

	var block bytes.Buffer
	block.WriteString("mpeg payload")
	_ = binary.Write(&block, binary.LittleEndian, uint32(2))
	for _, s := range []string{"SS-Actors", "", "SS-Channel", "47"} {
		block.WriteString(s)
		block.WriteByte(0)
	}
	recording := filepath.Join(src, "Nova", "Nova-2004-09-28-0.mpg")
	if err := os.MkdirAll(filepath.Dir(recording), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(recording, block.Bytes(), 0o644); err != nil {
		t.Fatalf("write recording: %v", err)
	}
	mkv := filepath.Join(dst, "Nova", "Nova (2004-09-28).mkv")
	if err := os.MkdirAll(filepath.Dir(mkv), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(mkv, nil, 0o644); err != nil {
		t.Fatalf("write mkv: %v", err)
	}

	stdout, _, err := runCLI(t, []string{"snapstream", "--src", src, "--dst", dst}, env.configPath)
	if err != nil {
		t.Fatalf("snapstream: %v", err)
	}
	sidecar := filepath.Join(dst, "Nova", "Nova (2004-09-28).json")
	requireContains(t, stdout, sidecar)
	data, err := os.ReadFile(sidecar)
	if err != nil {
		t.Fatalf("read sidecar: %v", err)
	}
	requireContains(t, string(data), `"Channel": "47"`)
	requireContains(t, string(data), `"SOURCE_CLEAN": "Nova (2004-09-28).mpg"`)
}

func TestSnapstreamRequiresSource(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"snapstream"}, env.configPath); err == nil {
		t.Fatal("expected --src to be required")
	}
}

func TestHistoryDisabled(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithHistoryDisabled())

	for i := 0; i < 2; i++ {
		stdout, _, err := runCLI(t, []string{"--audio", env.srcDir}, env.configPath)
		if err != nil {
			t.Fatalf("extract #%d: %v", i+1, err)
		}
		if strings.Contains(stdout, "already extracted") {
			t.Fatalf("extract #%d skipped with history disabled:\n%s", i+1, stdout)
		}
	}
	if _, err := os.Stat(env.cfg.History.Path); !os.IsNotExist(err) {
		t.Fatalf("history db created while disabled: %v", err)
	}

	_, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "disabled") {
		t.Fatalf("expected disabled error, got %v", err)
	}
}
