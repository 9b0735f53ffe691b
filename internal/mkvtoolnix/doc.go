// Package mkvtoolnix wraps the MKVToolNix command-line tools.
//
// Identify runs `mkvmerge -J` and decodes the identification JSON into
// typed tracks; Extract builds and runs `mkvextract` invocations, streaming
// the tool's merged output to the caller. Container parsing, demuxing and
// codec handling stay inside the external tools.
//
// Process execution goes through the Executor interface so tests can supply
// canned identification output and observe the argument vectors. The codec
// table maps Matroska codec IDs, MP4 fourccs and mkvmerge codec names to
// the file extension used for the extracted stream.
package mkvtoolnix
