package domain

// Config mirrors ~/.shellm/config.yaml.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	Preferences         Preferences       `yaml:"preferences"`
	Models              []ModelDefinition `yaml:"models"`
	Session             SessionSettings   `yaml:"session"`
	Execution           ExecutionSettings `yaml:"execution"`
	Cache               CacheSettings     `yaml:"cache"`
	Logging             LoggingSettings   `yaml:"logging"`
}

// Preferences captures user level toggles.
type Preferences struct {
	DefaultModel   string   `yaml:"default_model"`
	FallbackModels []string `yaml:"fallback_models"`
	TimeoutSeconds int      `yaml:"timeout"`
	MaxRetries     int      `yaml:"max_retries"`
	RenderMarkdown bool     `yaml:"render_markdown"`
	Spinner        bool     `yaml:"spinner"`
}

// SessionSettings bounds the in-memory command history sent to the model.
type SessionSettings struct {
	HistoryMaxEntries int `yaml:"history_max_entries"`
	HistoryMaxBytes   int `yaml:"history_max_bytes"`
}

// ExecutionSettings controls how commands run.
type ExecutionSettings struct {
	Shell          string `yaml:"shell"`
	TimeoutSeconds int    `yaml:"timeout"`
}

// CacheSettings configures the in-memory completion cache.
type CacheSettings struct {
	Enabled    bool `yaml:"enabled"`
	TTLSeconds int  `yaml:"ttl"`
	MaxEntries int  `yaml:"max_entries"`
}

// LoggingSettings routes diagnostic logs. An empty file disables logging
// unless verbose mode is on.
type LoggingSettings struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}
