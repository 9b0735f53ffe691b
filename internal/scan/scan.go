// Package scan expands command-line arguments into the media files to
// process.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Input is one file to process.
type Input struct {
	// Path is the file as it will be passed to the external tools.
	Path string
	// Root is the argument the file was found under. For explicit files it
	// is the file's own directory.
	Root string
	// Rel is Path relative to Root.
	Rel string
}

// RelDir returns the input's directory relative to its scan root, or "."
func (i Input) RelDir() string {
	return filepath.Dir(i.Rel)
}

// Inputs expands paths into inputs. Regular files are yielded as given;
// directories are walked recursively for files whose lower-cased extension
// is in exts, skipping hidden entries. Argument order is preserved, each
// directory's files are sorted, and files reached twice are yielded once.
func Inputs(paths []string, exts []string) ([]Input, error) {
	allowed := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = struct{}{}
	}

	seen := make(map[string]struct{})
	var inputs []Input
	add := func(in Input) {
		key := in.Path
		if abs, err := filepath.Abs(in.Path); err == nil {
			key = abs
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		inputs = append(inputs, in)
	}

	for _, arg := range paths {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(Input{Path: arg, Root: filepath.Dir(arg), Rel: filepath.Base(arg)})
			continue
		}
		found, err := walk(arg, allowed)
		if err != nil {
			return nil, err
		}
		for _, in := range found {
			add(in)
		}
	}
	return inputs, nil
}

func walk(root string, allowed map[string]struct{}) ([]Input, error) {
	var found []Input
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scan %s: %w", path, err)
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || (!d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0) {
			return nil
		}
		if _, ok := allowed[strings.ToLower(filepath.Ext(d.Name()))]; !ok {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			info, statErr := os.Stat(path)
			if statErr != nil || !info.Mode().IsRegular() {
				return nil
			}
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = filepath.Base(path)
		}
		found = append(found, Input{Path: path, Root: root, Rel: rel})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(found, func(a, b int) bool { return found[a].Rel < found[b].Rel })
	return found, nil
}
