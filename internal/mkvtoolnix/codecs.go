package mkvtoolnix

import "strings"

// Exact codec ID matches, keyed upper-case. MP4 fourccs share the table.
var codecIDExtensions = map[string]string{
	"V_MPEG4/ISO/AVC":  "h264",
	"V_MPEGH/ISO/HEVC": "h265",
	"V_MPEG4/ISO/ASP":  "m4v",
	"V_MPEG4/ISO/SP":   "m4v",
	"V_MPEG4/ISO/AP":   "m4v",
	"V_MPEG1":          "mpg",
	"V_MPEG2":          "mpg",
	"V_MS/VFW/FOURCC":  "avi",
	"V_VP8":            "ivf",
	"V_VP9":            "ivf",
	"V_AV1":            "ivf",
	"V_THEORA":         "ogg",
	"A_AC3":            "ac3",
	"A_EAC3":           "eac3",
	"A_DTS":            "dts",
	"A_TRUEHD":         "thd",
	"A_MLP":            "mlp",
	"A_FLAC":           "flac",
	"A_OPUS":           "opus",
	"A_VORBIS":         "ogg",
	"A_MPEG/L3":        "mp3",
	"A_MPEG/L2":        "mp2",
	"A_ALAC":           "caf",
	"A_TTA1":           "tta",
	"A_WAVPACK4":       "wv",
	"S_TEXT/UTF8":      "srt",
	"S_TEXT/ASCII":     "srt",
	"S_TEXT/SSA":       "ssa",
	"S_TEXT/ASS":       "ass",
	"S_SSA":            "ssa",
	"S_ASS":            "ass",
	"S_TEXT/USF":       "usf",
	"S_TEXT/WEBVTT":    "vtt",
	"S_VOBSUB":         "idx",
	"S_HDMV/PGS":       "sup",
	"S_HDMV/TEXTST":    "textst",
	"S_DVBSUB":         "dvbsub",
	"S_KATE":           "ogg",
	"AVC1":             "h264",
	"AVC3":             "h264",
	"HVC1":             "h265",
	"HEV1":             "h265",
	"MP4A":             "aac",
	"AC-3":             "ac3",
	"EC-3":             "eac3",
	"TX3G":             "srt",
}

var codecIDPrefixes = []struct {
	prefix string
	ext    string
}{
	{"A_AAC", "aac"},
	{"A_PCM/", "wav"},
	{"V_REAL/", "rm"},
	{"A_REAL/", "ra"},
}

// mkvmerge codec names, keyed lower-case.
var codecNameExtensions = map[string]string{
	"aac":             "aac",
	"ac-3":            "ac3",
	"ac3":             "ac3",
	"e-ac-3":          "eac3",
	"dts":             "dts",
	"truehd":          "thd",
	"truehd atmos":    "thd",
	"flac":            "flac",
	"opus":            "opus",
	"vorbis":          "ogg",
	"mp3":             "mp3",
	"avc":             "h264",
	"hevc":            "h265",
	"subrip":          "srt",
	"subrip/srt":      "srt",
	"substationalpha": "ass",
	"vobsub":          "idx",
	"hdmv pgs":        "sup",
	"pgs":             "sup",
	"tx3g":            "srt",
	"timed text":      "srt",
}

// Extension maps a codec to the extension of its extracted stream. It tries
// the codec ID, then the codec name, then the codec name's first
// slash-separated token. Unknown codecs fall back to a sanitized form of
// that token, or "bin", and report false.
func Extension(codecID, codec string) (string, bool) {
	id := strings.ToUpper(strings.TrimSpace(codecID))
	if id != "" {
		if ext, ok := codecIDExtensions[id]; ok {
			return ext, true
		}
		for _, entry := range codecIDPrefixes {
			if strings.HasPrefix(id, entry.prefix) {
				return entry.ext, true
			}
		}
	}

	name := strings.ToLower(strings.TrimSpace(codec))
	if ext, ok := codecNameExtensions[name]; ok {
		return ext, true
	}
	token, _, _ := strings.Cut(name, "/")
	token = strings.TrimSpace(token)
	if ext, ok := codecNameExtensions[token]; ok {
		return ext, true
	}
	if fallback := sanitizeExtension(token); fallback != "" {
		return fallback, false
	}
	return "bin", false
}

func sanitizeExtension(value string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(value) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
