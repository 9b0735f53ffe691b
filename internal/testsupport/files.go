package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// ebmlMagic opens every Matroska and WebM file.
var ebmlMagic = []byte{0x1a, 0x45, 0xdf, 0xa3}

// WriteFile drops a fake container at path: the EBML magic followed by zero
// padding up to size bytes. Parent directories are created as needed.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, ebmlMagic, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if size > int64(len(ebmlMagic)) {
		if err := os.Truncate(path, size); err != nil {
			t.Fatalf("grow %s to %d bytes: %v", path, size, err)
		}
	}
}
