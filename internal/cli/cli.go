package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/modscango/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("modscan", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
modscan - indexes game mod content: class definitions and assets.

Usage:
  modscan [options] [GAME_DIR]

Arguments:
  GAME_DIR
    Path to the game directory containing @mod folders.

Options:
`)
		flagSet.PrintDefaults()
	}

	gameDirFlag := flagSet.String("game-dir", "", "Path to the game directory.")
	configFlag := flagSet.String("config", "", "Path to a modscan.hcl config file.")
	modsFlag := flagSet.String("mods", "", "Comma-separated mod names to scan. Empty scans all.")
	workersFlag := flagSet.Int("workers", 0, "Number of concurrent scan workers. 0 uses the config value.")
	pboLimitFlag := flagSet.Int("pbo-limit", 0, "Maximum number of PBO archives to process. 0 is unlimited.")
	reportFlag := flagSet.String("report", "", "Report format. Options: 'text', 'json' or 'summary'.")
	outputFlag := flagSet.String("output", "", "Write the report to a file instead of stdout.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	gameDir := *gameDirFlag
	if gameDir == "" && flagSet.NArg() > 0 {
		gameDir = flagSet.Arg(0)
	}
	slog.Debug("Game directory determined.", "path", gameDir)

	if gameDir == "" && *configFlag == "" {
		slog.Debug("No game directory provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	var mods []string
	for _, mod := range strings.Split(*modsFlag, ",") {
		if mod = strings.TrimSpace(mod); mod != "" {
			mods = append(mods, mod)
		}
	}

	config, err := app.NewConfig(app.Config{
		GameDir:      gameDir,
		ConfigPath:   *configFlag,
		Mods:         mods,
		Workers:      *workersFlag,
		PBOLimit:     *pboLimitFlag,
		ReportFormat: strings.ToLower(*reportFlag),
		OutputPath:   *outputFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
