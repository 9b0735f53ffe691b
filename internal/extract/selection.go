package extract

import (
	"errors"
	"fmt"
	"strings"

	"mkvsplit/internal/config"
	"mkvsplit/internal/mkvtoolnix"
)

// ErrNoCategories is returned when nothing was selected for extraction.
var ErrNoCategories = errors.New("select at least one of --video, --audio, --subtitles, --chapters")

// Selection is the set of categories to extract.
type Selection struct {
	Video     bool
	Audio     bool
	Subtitles bool
	Chapters  bool
}

// ParseSelection builds a selection from category names.
func ParseSelection(names []string) (Selection, error) {
	var sel Selection
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case config.CategoryVideo:
			sel.Video = true
		case config.CategoryAudio:
			sel.Audio = true
		case config.CategorySubtitles:
			sel.Subtitles = true
		case config.CategoryChapters:
			sel.Chapters = true
		case "":
		default:
			return Selection{}, fmt.Errorf("unknown category %q", name)
		}
	}
	return sel, nil
}

// Empty reports whether no category is selected.
func (s Selection) Empty() bool {
	return !s.Video && !s.Audio && !s.Subtitles && !s.Chapters
}

// Validate returns ErrNoCategories for an empty selection.
func (s Selection) Validate() error {
	if s.Empty() {
		return ErrNoCategories
	}
	return nil
}

// Names lists the selected categories in canonical order.
func (s Selection) Names() []string {
	names := make([]string, 0, 4)
	if s.Video {
		names = append(names, config.CategoryVideo)
	}
	if s.Audio {
		names = append(names, config.CategoryAudio)
	}
	if s.Subtitles {
		names = append(names, config.CategorySubtitles)
	}
	if s.Chapters {
		names = append(names, config.CategoryChapters)
	}
	return names
}

func (s Selection) String() string {
	return strings.Join(s.Names(), "/")
}

// IncludesTrack reports whether a track of the given mkvmerge type is selected.
func (s Selection) IncludesTrack(trackType string) bool {
	switch trackType {
	case mkvtoolnix.TrackVideo:
		return s.Video
	case mkvtoolnix.TrackAudio:
		return s.Audio
	case mkvtoolnix.TrackSubtitles:
		return s.Subtitles
	default:
		return false
	}
}
