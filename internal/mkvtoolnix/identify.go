package mkvtoolnix

import (
	"encoding/json"
	"strings"
)

// Container kinds mkvsplit knows how to extract from.
const (
	KindMatroska    = "matroska"
	KindMP4         = "mp4"
	KindUnsupported = "unsupported"
)

// Track types as reported by mkvmerge.
const (
	TrackVideo     = "video"
	TrackAudio     = "audio"
	TrackSubtitles = "subtitles"
)

// Info is the decoded `mkvmerge -J` identification result.
type Info struct {
	FileName  string           `json:"file_name"`
	Container Container        `json:"container"`
	Tracks    []Track          `json:"tracks"`
	Chapters  []ChapterEdition `json:"chapters"`
	Errors    []string         `json:"errors"`
	Warnings  []string         `json:"warnings"`
}

// Container describes the input file's container.
type Container struct {
	Recognized bool                `json:"recognized"`
	Supported  bool                `json:"supported"`
	Type       string              `json:"type"`
	Properties ContainerProperties `json:"properties"`
}

// ContainerProperties holds the container-level metadata mkvsplit reports.
type ContainerProperties struct {
	Title    string `json:"title"`
	Duration int64  `json:"duration"`
}

// ChapterEdition summarizes one chapter edition.
type ChapterEdition struct {
	NumEntries int `json:"num_entries"`
}

// Track is one elementary stream in the container.
type Track struct {
	ID         int             `json:"id"`
	Type       string          `json:"type"`
	Codec      string          `json:"codec"`
	Properties TrackProperties `json:"properties"`
}

// TrackProperties carries the per-track fields used for naming and selection.
type TrackProperties struct {
	CodecID                string `json:"codec_id"`
	Language               string `json:"language"`
	LanguageIETF           string `json:"language_ietf"`
	TrackName              string `json:"track_name"`
	ForcedTrack            bool   `json:"forced_track"`
	DefaultTrack           bool   `json:"default_track"`
	Number                 int    `json:"number"`
	PixelDimensions        string `json:"pixel_dimensions"`
	AudioChannels          int    `json:"audio_channels"`
	AudioSamplingFrequency int    `json:"audio_sampling_frequency"`
}

// ParseInfo decodes identification JSON.
func ParseInfo(data []byte) (Info, error) {
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return Info{}, err
	}
	return info, nil
}

// ContainerKind classifies the container for extraction.
func (i Info) ContainerKind() string {
	if !i.Container.Recognized {
		return KindUnsupported
	}
	switch strings.ToLower(strings.TrimSpace(i.Container.Type)) {
	case "matroska", "webm":
		return KindMatroska
	case "quicktime/mp4", "mp4", "quicktime":
		return KindMP4
	default:
		return KindUnsupported
	}
}

// ContainerName returns the container type for messages.
func (i Info) ContainerName() string {
	if name := strings.TrimSpace(i.Container.Type); name != "" {
		return name
	}
	return "unknown"
}

// ChapterCount sums chapter entries across editions.
func (i Info) ChapterCount() int {
	total := 0
	for _, edition := range i.Chapters {
		total += edition.NumEntries
	}
	return total
}

// HasChapters reports whether the file carries any chapters.
func (i Info) HasChapters() bool {
	return i.ChapterCount() > 0
}

// Extension returns the output extension for the track's codec.
func (t Track) Extension() string {
	ext, _ := Extension(t.Properties.CodecID, t.Codec)
	return ext
}

// KnownCodec reports whether the codec is in the extension table.
func (t Track) KnownCodec() bool {
	_, ok := Extension(t.Properties.CodecID, t.Codec)
	return ok
}

// MP4Number returns the 1-based track number MP4Box expects.
func (t Track) MP4Number() int {
	if t.Properties.Number > 0 {
		return t.Properties.Number
	}
	return t.ID + 1
}
