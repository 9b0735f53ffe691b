// Package logging assembles structured slog loggers and formatting helpers used
// across mkvsplit.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes component loggers so the planner, the tool wrappers,
// and the history ledger tag their lines consistently. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
//
// Log output goes to stderr by default so stdout stays reserved for the
// user-facing report (dry-run commands and external tool output).
package logging
