package app

import "errors"

// Config holds everything the CLI layer resolved for an App run. Zero
// values mean "defer to the config file or its default".
type Config struct {
	GameDir    string // overrides scan.game_dir
	ConfigPath string // modscan.hcl, optional

	Mods         []string
	Workers      int
	PBOLimit     int
	ReportFormat string // text, json or summary
	OutputPath   string // empty writes to the app's output writer

	LogFormat string
	LogLevel  string
}

// NewConfig validates a CLI-resolved configuration.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.GameDir == "" && cfg.ConfigPath == "" {
		return nil, errors.New("a game directory or a config file is required")
	}
	switch cfg.ReportFormat {
	case "", "text", "json", "summary":
	default:
		return nil, errors.New("invalid report format: must be 'text', 'json' or 'summary'")
	}
	return &cfg, nil
}
