package config

const (
	defaultMkvmergeBinary   = "mkvmerge"
	defaultMkvextractBinary = "mkvextract"
	defaultMP4BoxBinary     = "MP4Box"
	defaultToolTimeout      = 0
	defaultLanguage         = "en"
	defaultStateDirFallback = "~/.local/share/mkvsplit"
	defaultHistoryFileName  = "history.db"
	defaultHistoryEnabled   = true
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	envLogLevel             = "MKVSPLIT_LOG_LEVEL"
	envMkvextractArgs       = "MKVSPLIT_MKVEXTRACT_ARGS"
)

// Categories accepted by extract.default_categories and the CLI selectors.
const (
	CategoryVideo     = "video"
	CategoryAudio     = "audio"
	CategorySubtitles = "subtitles"
	CategoryChapters  = "chapters"
)

// KnownCategories lists every selectable category in canonical order.
var KnownCategories = []string{CategoryVideo, CategoryAudio, CategorySubtitles, CategoryChapters}

var defaultExtensions = []string{".mkv", ".mk3d", ".mka", ".mks", ".mp4", ".m4v"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tools: Tools{
			Mkvmerge:       defaultMkvmergeBinary,
			Mkvextract:     defaultMkvextractBinary,
			MP4Box:         defaultMP4BoxBinary,
			TimeoutSeconds: defaultToolTimeout,
		},
		Extract: Extract{
			DefaultLanguage: defaultLanguage,
			Extensions:      append([]string(nil), defaultExtensions...),
		},
		Paths: Paths{
			StateDir: defaultStateDir(),
		},
		History: History{
			Enabled: defaultHistoryEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
