// Package main hosts the mkvsplit CLI entrypoint and command graph.
//
// The root command extracts tracks and chapters from the files and
// directories given on the command line. Subcommands inspect tracks, report
// toolchain status, browse the extraction history, scaffold configuration,
// and write SnapStream metadata sidecars. Configuration resolution and
// logger construction live in commandContext so each command only wires the
// internal packages it needs.
package main
