// Package config loads, normalizes, and validates mkvsplit configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MKVSPLIT_LOG_LEVEL. The Config type centralizes the external tool binaries,
// extraction defaults, history ledger location, and logging knobs so the CLI
// resolves every setting in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical category names, and clear validation errors.
package config
