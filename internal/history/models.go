package history

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the outcome recorded for one source file.
type Status string

const (
	StatusExtracted Status = "extracted"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// NewRunID returns a fresh identifier grouping one invocation's entries.
func NewRunID() string {
	return uuid.NewString()
}

// Source identifies a file by path and content fingerprint.
type Source struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatSource fingerprints path.
func StatSource(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Source{}, fmt.Errorf("stat source: %w", err)
	}
	return Source{Path: path, Size: info.Size(), ModTime: info.ModTime().UTC()}, nil
}

// Entry is one ledger row.
type Entry struct {
	ID           int64
	RunID        string
	Source       Source
	Categories   []string
	Container    string
	Status       Status
	Warnings     bool
	Outputs      []string
	ErrorMessage string
	ExitCode     int
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Duration returns how long the extraction took.
func (e Entry) Duration() time.Duration {
	if e.FinishedAt.Before(e.StartedAt) {
		return 0
	}
	return e.FinishedAt.Sub(e.StartedAt)
}

// Wrote reports whether the entry recorded exactly the given outputs, in
// any order.
func (e Entry) Wrote(outputs []string) bool {
	if len(outputs) != len(e.Outputs) {
		return false
	}
	recorded := slices.Clone(e.Outputs)
	wanted := slices.Clone(outputs)
	slices.Sort(recorded)
	slices.Sort(wanted)
	return slices.Equal(recorded, wanted)
}

// OutputsPresent reports whether every recorded output still exists.
func (e Entry) OutputsPresent() bool {
	for _, path := range e.Outputs {
		if _, err := os.Stat(path); err != nil {
			return false
		}
	}
	return true
}

// categoryKey is the canonical stored form of a category selection.
func categoryKey(categories []string) string {
	cp := make([]string, 0, len(categories))
	for _, c := range categories {
		c = strings.ToLower(strings.TrimSpace(c))
		if c != "" {
			cp = append(cp, c)
		}
	}
	sort.Strings(cp)
	return strings.Join(cp, ",")
}

func splitCategories(key string) []string {
	if key == "" {
		return nil
	}
	return strings.Split(key, ",")
}
