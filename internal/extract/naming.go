package extract

import (
	"path/filepath"
	"strconv"
	"strings"

	"mkvsplit/internal/mkvtoolnix"
	"mkvsplit/internal/scan"
)

const chaptersSuffix = ".chapters.xml"

// TargetBase returns the output path prefix for an input: the source path
// without its extension, or the same stem under dst mirroring the input's
// position below its scan root.
func TargetBase(in scan.Input, dst string) string {
	stem := strings.TrimSuffix(filepath.Base(in.Path), filepath.Ext(in.Path))
	if strings.TrimSpace(dst) == "" {
		return filepath.Join(filepath.Dir(in.Path), stem)
	}
	return filepath.Join(dst, in.RelDir(), stem)
}

// TrackPath names a track file: <base>.<id>[.<title>].<lang>.<ext>.
func TrackPath(base string, track mkvtoolnix.Track, lang string) string {
	parts := []string{base, strconv.Itoa(track.ID)}
	if title := sanitizeTitle(track.Properties.TrackName); title != "" {
		parts = append(parts, title)
	}
	parts = append(parts, lang, track.Extension())
	return strings.Join(parts, ".")
}

// ChaptersPath names the chapters file for base.
func ChaptersPath(base string) string {
	return base + chaptersSuffix
}

var titleReplacer = strings.NewReplacer("/", "-", "\\", "-", "\x00", "")

func sanitizeTitle(title string) string {
	return strings.TrimSpace(titleReplacer.Replace(title))
}
