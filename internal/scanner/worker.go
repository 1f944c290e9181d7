package scanner

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"time"

	"github.com/vk/modscango/internal/classparser"
	"github.com/vk/modscango/internal/ctxlog"
	"github.com/vk/modscango/internal/model"
	"github.com/vk/modscango/internal/pbo"
)

// worker is the processing loop for a single concurrent worker. Each worker
// owns its parser and extractor, so no parse state is shared across
// goroutines.
func (s *Scanner) worker(ctx context.Context, workerID int, tasks <-chan task, results chan<- taskResult) {
	logger := ctxlog.FromContext(ctx).With("workerID", workerID)
	logger.Debug("Worker started.")

	parser := classparser.New(logger)
	extractor := pbo.NewExtractor(time.Duration(s.cfg.PBOTimeoutSeconds) * time.Second)
	defer func() {
		if err := extractor.Close(); err != nil {
			logger.Warn("Failed to clean up extraction dir.", "error", err)
		}
	}()

	for t := range tasks {
		select {
		case <-ctx.Done():
			logger.Debug("Worker stopping, context cancelled.")
			return
		default:
		}

		var res taskResult
		if t.isPBO {
			res = s.scanPBO(ctx, parser, extractor, t)
		} else {
			res = s.scanLooseFile(parser, t)
		}

		select {
		case results <- res:
		case <-ctx.Done():
			return
		}
	}
	logger.Debug("Worker finished.")
}

// scanPBO lists one archive, records every member as an asset and parses
// any code files it carries.
func (s *Scanner) scanPBO(ctx context.Context, parser *classparser.Parser, extractor *pbo.Extractor, t task) taskResult {
	contents, err := extractor.ScanContents(ctx, t.path)
	if err != nil {
		return taskResult{err: fmt.Errorf("scanning %s: %w", t.path, err)}
	}

	assets := make([]model.Asset, 0, len(contents.Paths))
	for _, memberPath := range contents.Paths {
		a := model.NewAsset(memberPath, t.mod.Name)
		a.PBOPath = model.NormalizePath(t.path)
		a.HasPrefix = contents.Prefix != ""
		assets = append(assets, a)
	}

	var raws []classparser.RawClass
	src := classparser.FileSource{PBOPath: model.NormalizePath(t.path), ModName: t.mod.Name}
	for rel, content := range contents.CodeFiles {
		sourceFile := path.Join(contents.Prefix, rel)
		fileRaws, err := parser.ScanRawContent([]byte(content), sourceFile, src)
		if err != nil {
			return taskResult{err: err}
		}
		raws = append(raws, fileRaws...)
	}
	return taskResult{raws: raws, assets: assets}
}

// scanLooseFile parses a code file sitting directly in the mod folder and
// records it as an asset.
func (s *Scanner) scanLooseFile(parser *classparser.Parser, t task) taskResult {
	src := classparser.FileSource{ModName: t.mod.Name}
	raws, err := parser.ScanRawFile(t.path, src)
	if err != nil {
		return taskResult{err: err}
	}

	rel, err := filepath.Rel(t.mod.Path, t.path)
	if err != nil {
		rel = filepath.Base(t.path)
	}
	asset := model.NewAsset(filepath.ToSlash(rel), t.mod.Name)
	asset.HasPrefix = false

	return taskResult{raws: raws, assets: []model.Asset{asset}}
}
