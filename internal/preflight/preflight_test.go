package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mkvsplit/internal/config"
	"mkvsplit/internal/deps"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := CheckDirectoryAccess("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if CheckDirectoryAccess("test", f).Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckCreatableDirectory(t *testing.T) {
	base := t.TempDir()

	missing := filepath.Join(base, "a", "b", "c")
	result := CheckCreatableDirectory("dst", missing)
	if !result.Passed || !strings.Contains(result.Detail, "will be created") {
		t.Fatalf("expected creatable result, got %#v", result)
	}

	file := filepath.Join(base, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if CheckCreatableDirectory("dst", filepath.Join(file, "child")).Passed {
		t.Fatal("expected failure when ancestor is a file")
	}
	if CheckCreatableDirectory("dst", "").Passed {
		t.Fatal("expected failure for empty path")
	}
}

func writeStub(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestRunAllReportsMissingTools(t *testing.T) {
	cfg := config.Default()
	cfg.Tools.Mkvmerge = "definitely-missing-mkvmerge"
	cfg.Tools.Mkvextract = "definitely-missing-mkvextract"
	cfg.Tools.MP4Box = "definitely-missing-mp4box"
	cfg.Paths.StateDir = t.TempDir()

	results := RunAll(context.Background(), &cfg, "")
	failed := Failed(results)
	if len(failed) != 2 {
		t.Fatalf("expected mkvmerge and mkvextract failures, got %#v", failed)
	}
	err := Summarize(results)
	if err == nil || !strings.Contains(err.Error(), "mkvextract") {
		t.Fatalf("expected summary naming mkvextract, got %v", err)
	}
}

func TestRunAllPassesWithStubs(t *testing.T) {
	bin := t.TempDir()
	cfg := config.Default()
	cfg.Tools.Mkvmerge = writeStub(t, bin, "mkvmerge", "exit 0")
	cfg.Tools.Mkvextract = writeStub(t, bin, "mkvextract", "exit 0")
	cfg.Paths.StateDir = t.TempDir()

	results := RunAll(context.Background(), &cfg, filepath.Join(t.TempDir(), "out"))
	if err := Summarize(results); err != nil {
		t.Fatalf("expected preflight to pass: %v", err)
	}
}

func TestProbeVersion(t *testing.T) {
	bin := t.TempDir()
	stub := writeStub(t, bin, "mkvmerge", `echo "mkvmerge v80.0 ('Roundabout') 64-bit"; echo second`)

	version, err := ProbeVersion(context.Background(), stub)
	if err != nil {
		t.Fatalf("ProbeVersion: %v", err)
	}
	if version != "mkvmerge v80.0 ('Roundabout') 64-bit" {
		t.Fatalf("unexpected version %q", version)
	}

	if _, err := ProbeVersion(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty command")
	}
}

func TestDependencyResultDetail(t *testing.T) {
	ok := dependencyResult(deps.Status{Name: "mkvmerge", Command: "mkvmerge", Available: true})
	if !ok.Passed || ok.Detail != "mkvmerge" {
		t.Fatalf("expected passing result naming the command, got %#v", ok)
	}
	missing := dependencyResult(deps.Status{Name: "mkvextract", Command: "mkvextract", Detail: `binary "mkvextract" not found`})
	if missing.Passed || missing.Detail != `binary "mkvextract" not found` {
		t.Fatalf("expected failing result with lookup detail, got %#v", missing)
	}
}
