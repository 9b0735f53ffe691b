// Package extract decides which tracks of each input to extract, names the
// output files and drives the external tools.
//
// A Planner turns one input into a Plan: it identifies the file through
// mkvmerge, keeps the tracks whose type is in the Selection, tags each with
// its language and builds the mkvextract (Matroska) or MP4Box (MPEG-4)
// command lines. An Extractor runs plans for a batch sequentially, printing
// commands instead in dry-run mode, and records each outcome in the history
// ledger.
//
// Failures never stop a batch. They are collected into a multierror whose
// ExitCode mirrors the external tool's exit status.
package extract
