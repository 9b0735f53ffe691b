package snapstream

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

const (
	// tailSize is how much of the end of a recording is searched.
	tailSize = 100000
	// firstKey anchors the metadata block.
	firstKey  = "SS-Actors"
	keyPrefix = "SS-"

	KeySource      = "SOURCE"
	KeySourceClean = "SOURCE_CLEAN"
)

var (
	// ErrNoMetadata is returned when a recording carries no metadata block.
	ErrNoMetadata = errors.New("no metadata")
	// ErrTruncated is returned when the block ends before its declared count.
	ErrTruncated = errors.New("metadata block truncated")
)

var ignoredKeys = map[string]struct{}{
	"OriginalFileSize": {},
	"ShowSqueeze":      {},
}

// Metadata maps keys (without the SS- prefix) to values.
type Metadata map[string]string

// JSON renders the metadata with sorted keys and two-space indentation.
func (m Metadata) JSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]string(m)); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Extract reads the metadata block from the end of the recording at path.
func Extract(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	offset := info.Size() - tailSize
	if offset < 0 {
		offset = 0
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek %s: %w", path, err)
	}
	tail, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(tail, filepath.Base(path))
}

// Parse decodes the metadata block found in data. source is the
// recording's file name, recorded under SOURCE and SOURCE_CLEAN.
func Parse(data []byte, source string) (Metadata, error) {
	offset := bytes.Index(data, []byte(firstKey))
	if offset < 4 {
		return nil, ErrNoMetadata
	}
	count := binary.LittleEndian.Uint32(data[offset-4 : offset])

	decoder := charmap.ISO8859_1.NewDecoder()
	decode := func(raw []byte) string {
		out, err := decoder.Bytes(raw)
		if err != nil {
			return string(raw)
		}
		return string(out)
	}

	meta := Metadata{
		KeySource:      source,
		KeySourceClean: CleanupName(source),
	}
	rest := data[offset:]
	next := func() ([]byte, bool) {
		end := bytes.IndexByte(rest, 0)
		if end < 0 {
			return nil, false
		}
		s := rest[:end]
		rest = rest[end+1:]
		return s, true
	}
	for i := uint32(0); i < count; i++ {
		key, ok := next()
		if !ok {
			return nil, fmt.Errorf("%w: %d of %d pairs", ErrTruncated, i, count)
		}
		value, ok := next()
		if !ok {
			return nil, fmt.Errorf("%w: %d of %d pairs", ErrTruncated, i, count)
		}
		name := strings.TrimPrefix(decode(key), keyPrefix)
		if _, skip := ignoredKeys[name]; skip {
			continue
		}
		meta[name] = decode(value)
	}
	return meta, nil
}
