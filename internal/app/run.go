package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vk/modscango/internal/ctxlog"
	"github.com/vk/modscango/internal/report"
	"github.com/vk/modscango/internal/scanner"
)

// Run executes a full scan and writes the configured report.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	s := scanner.New(a.cfg.Scan, a.cache)
	result, err := s.Scan(ctx)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	for _, scanErr := range result.Errors {
		a.logger.Warn("Scan task failed.", "error", scanErr)
	}

	out := a.outW
	if a.cfg.Report.Output != "" {
		f, err := os.Create(a.cfg.Report.Output)
		if err != nil {
			return fmt.Errorf("creating report output: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := a.writeReport(out, result); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) writeReport(out io.Writer, result *scanner.Result) error {
	switch a.cfg.Report.Format {
	case "json":
		return report.WriteJSON(out, result.Registry)
	case "summary":
		return report.WriteSummary(out, result.Hierarchy)
	default:
		return report.WriteTree(out, result.Hierarchy)
	}
}
