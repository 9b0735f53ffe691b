package deps

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Toolkit names the external binaries extraction relies on.
type Toolkit struct {
	Mkvmerge   string
	Mkvextract string
	MP4Box     string
}

// Requirements lists the toolkit binaries in status order. MP4Box is only
// needed for MPEG-4 inputs and is therefore optional.
func (t Toolkit) Requirements() []Requirement {
	return []Requirement{
		{Name: "mkvmerge", Command: t.Mkvmerge, Description: "Identifies tracks and chapters"},
		{Name: "mkvextract", Command: ResolveSibling(t.Mkvmerge, t.Mkvextract), Description: "Extracts Matroska tracks and chapters"},
		{Name: "MP4Box", Command: t.MP4Box, Description: "Extracts MPEG-4 tracks", Optional: true},
	}
}

// ResolveSibling finds a bare command next to an anchor binary configured by
// path. MKVToolNix installs its tools side by side, so pointing mkvmerge at a
// portable bundle also picks up that bundle's mkvextract. PATH lookup applies
// when the anchor is a bare name or no sibling exists.
func ResolveSibling(anchor, command string) string {
	command = strings.TrimSpace(command)
	anchor = strings.TrimSpace(anchor)
	if command == "" || strings.ContainsRune(command, filepath.Separator) {
		return command
	}
	if !strings.ContainsRune(anchor, filepath.Separator) {
		return command
	}
	resolved, err := exec.LookPath(anchor)
	if err != nil {
		return command
	}
	name := command
	if runtime.GOOS == "windows" && filepath.Ext(name) == "" {
		name += ".exe"
	}
	candidate := filepath.Join(filepath.Dir(resolved), name)
	if info, statErr := os.Stat(candidate); statErr == nil && isExecutable(info) {
		return candidate
	}
	return command
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
