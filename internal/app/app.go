package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/modscango/internal/assetcache"
	"github.com/vk/modscango/internal/config"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	cfg    *config.File
	cache  *assetcache.Cache
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger, the merged file
// and CLI configuration, and an empty asset cache.
func NewApp(outW io.Writer, appConfig *Config) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	cfg := config.Default()
	if appConfig.ConfigPath != "" {
		loaded, err := config.Load(appConfig.ConfigPath)
		if err != nil {
			// A failure to load config is a fatal startup error.
			panic(fmt.Errorf("failed to load configuration: %w", err))
		}
		cfg = loaded
	}
	mergeCLIOverrides(cfg, appConfig)
	logger.Debug("Configuration resolved.", "game_dir", cfg.Scan.GameDir, "workers", cfg.Scan.Workers)

	if cfg.Scan.GameDir == "" {
		panic(fmt.Errorf("no game directory configured"))
	}

	cache, err := assetcache.New(cfg.Scan.MaxCacheSize)
	if err != nil {
		panic(fmt.Errorf("failed to create asset cache: %w", err))
	}

	return &App{
		outW:   outW,
		logger: logger,
		cfg:    cfg,
		cache:  cache,
	}
}

// mergeCLIOverrides layers CLI-provided settings over the file
// configuration. Flags the user left unset keep the file's values.
func mergeCLIOverrides(cfg *config.File, appConfig *Config) {
	if appConfig.GameDir != "" {
		cfg.Scan.GameDir = appConfig.GameDir
	}
	if len(appConfig.Mods) > 0 {
		cfg.Scan.Mods = appConfig.Mods
	}
	if appConfig.Workers > 0 {
		cfg.Scan.Workers = appConfig.Workers
	}
	if appConfig.PBOLimit > 0 {
		cfg.Scan.PBOLimit = appConfig.PBOLimit
	}
	if appConfig.ReportFormat != "" {
		cfg.Report.Format = appConfig.ReportFormat
	}
	if appConfig.OutputPath != "" {
		cfg.Report.Output = appConfig.OutputPath
	}
}

// Cache returns the application's asset cache. This is primarily for
// testing.
func (a *App) Cache() *assetcache.Cache {
	return a.cache
}

// ResolvedConfig returns the merged configuration. This is primarily for
// testing.
func (a *App) ResolvedConfig() *config.File {
	return a.cfg
}
