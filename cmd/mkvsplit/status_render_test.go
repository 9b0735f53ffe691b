package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mkvsplit/internal/deps"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("mkvmerge", statusError, "not found", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "mkvmerge:", "[ERROR] not found")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("mkvmerge", statusOK, "Ready", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestAddDependencies(t *testing.T) {
	statuses := []deps.Status{
		{Name: "mkvmerge", Available: false, Detail: `binary "mkvmerge" not found`},
		{Name: "MP4Box", Available: false, Optional: true, Detail: `binary "MP4Box" not found`},
	}
	report := newStatusReport(false)
	addDependencies(t.Context(), report, statuses)
	lines := report.lines
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), lines)
	}
	if !strings.Contains(lines[0], "[ERROR]") {
		t.Fatalf("expected error for required tool, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "[WARN]") || !strings.Contains(lines[1], "MPEG-4") {
		t.Fatalf("expected warning for optional tool, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "Missing:") || !strings.Contains(lines[2], "mkvmerge") {
		t.Fatalf("expected missing summary, got %q", lines[2])
	}
	if report.worst != statusError {
		t.Fatalf("worst = %d, want statusError", report.worst)
	}
}

func TestStatusReportSections(t *testing.T) {
	report := newStatusReport(false)
	report.section("Toolchain")
	report.add("mkvmerge", statusOK, "Ready")
	report.section("Paths")

	got := report.String()
	want := "== Toolchain ==\n---------------\n" + renderStatusLine("mkvmerge", statusOK, "Ready", false) + "\n\n== Paths ==\n-----------"
	if got != want {
		t.Fatalf("report mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestAddDirectoryReportsPendingCreation(t *testing.T) {
	existing := t.TempDir()
	pending := filepath.Join(existing, "later")
	report := newStatusReport(false)
	addDirectory(report, "State directory", existing)
	addDirectory(report, "Log directory", pending)

	if !strings.Contains(report.lines[0], "[OK]") {
		t.Fatalf("expected OK for existing directory, got %q", report.lines[0])
	}
	if !strings.Contains(report.lines[1], "will be created") || strings.Contains(report.lines[1], "[ERROR]") {
		t.Fatalf("expected pending directory note, got %q", report.lines[1])
	}
	if _, err := os.Stat(pending); !os.IsNotExist(err) {
		t.Fatalf("status must not create %s", pending)
	}
	if report.worst == statusError {
		t.Fatal("pending directory should not fail status")
	}
}
