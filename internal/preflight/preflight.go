package preflight

import (
	"context"
	"fmt"
	"strings"

	"mkvsplit/internal/config"
	"mkvsplit/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks an extraction run depends on. dst is the
// optional --dst directory; it is skipped when empty.
func RunAll(ctx context.Context, cfg *config.Config, dst string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	for _, status := range CheckSystemDeps(ctx, cfg) {
		if status.Optional && !status.Available {
			continue
		}
		results = append(results, dependencyResult(status))
	}

	results = append(results, CheckCreatableDirectory("State directory", cfg.Paths.StateDir))
	if strings.TrimSpace(dst) != "" {
		results = append(results, CheckCreatableDirectory("Destination", dst))
	}
	return results
}

// dependencyResult reports a tool check, naming the command when the
// status carries no detail.
func dependencyResult(status deps.Status) Result {
	detail := status.Command
	if status.Detail != "" {
		detail = status.Detail
	}
	return Result{Name: status.Name, Passed: status.Available, Detail: detail}
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// Summarize joins failed results into a single error, or returns nil.
func Summarize(results []Result) error {
	failed := Failed(results)
	if len(failed) == 0 {
		return nil
	}
	parts := make([]string, 0, len(failed))
	for _, r := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return fmt.Errorf("preflight failed: %s", strings.Join(parts, "; "))
}
