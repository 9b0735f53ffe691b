package config

// Config is the parsed form of config.toml. Load returns it with paths
// expanded, categories canonicalized and every section validated.
type Config struct {
	Tools   Tools   `toml:"tools"`
	Extract Extract `toml:"extract"`
	Paths   Paths   `toml:"paths"`
	History History `toml:"history"`
	Logging Logging `toml:"logging"`
}

// Tools locates mkvmerge, mkvextract and MP4Box. MkvextractArgs is split
// with shell quoting rules and appended to every mkvextract call.
type Tools struct {
	Mkvmerge       string `toml:"mkvmerge"`
	Mkvextract     string `toml:"mkvextract"`
	MP4Box         string `toml:"mp4box"`
	MkvextractArgs string `toml:"mkvextract_args"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Extract holds naming and selection defaults.
type Extract struct {
	DefaultLanguage   string   `toml:"default_language"`
	DefaultCategories []string `toml:"default_categories"`
	Extensions        []string `toml:"extensions"`
}

type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// History toggles the SQLite extraction ledger.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}
