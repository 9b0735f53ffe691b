// Package language normalizes track language metadata into the short tags
// embedded in extracted filenames.
//
// Matroska files carry ISO 639-2 codes in the legacy `language` element and
// BCP 47 tags in `language_ietf`. Both, along with bibliographic codes and
// English names, resolve through golang.org/x/text to ISO 639-1 where the
// language has a two-letter code.
package language
