package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vk/modscango/internal/assetcache"
	"github.com/vk/modscango/internal/classparser"
	"github.com/vk/modscango/internal/config"
	"github.com/vk/modscango/internal/ctxlog"
	"github.com/vk/modscango/internal/fsutil"
	"github.com/vk/modscango/internal/model"
)

// Mod is a discovered content folder.
type Mod struct {
	Name string
	Path string
}

// Result aggregates everything one scan produced.
type Result struct {
	Registry  *classparser.Registry
	Hierarchy *classparser.Hierarchy
	Mods      []Mod
	Assets    int
	ScanTime  time.Time
	Errors    []error
}

// Scanner runs the discovery and parse pipeline described by its
// configuration, merging results into the given cache.
type Scanner struct {
	cfg   *config.Scan
	cache *assetcache.Cache
}

// New builds a scanner over the given scan configuration and cache.
func New(cfg *config.Scan, cache *assetcache.Cache) *Scanner {
	return &Scanner{cfg: cfg, cache: cache}
}

// task is one unit of worker input: a PBO archive or a loose code file.
type task struct {
	mod   Mod
	path  string
	isPBO bool
}

// taskResult carries one task's output back to the collector.
type taskResult struct {
	raws   []classparser.RawClass
	assets []model.Asset
	err    error
}

// DiscoverMods lists the mod folders under the game directory. Folders
// starting with @ follow the mod convention; when the configuration names
// specific mods, everything else is skipped.
func (s *Scanner) DiscoverMods(ctx context.Context) ([]Mod, error) {
	logger := ctxlog.FromContext(ctx)

	entries, err := os.ReadDir(s.cfg.GameDir)
	if err != nil {
		return nil, fmt.Errorf("reading game dir %s: %w", s.cfg.GameDir, err)
	}

	wanted := make(map[string]struct{}, len(s.cfg.Mods))
	for _, m := range s.cfg.Mods {
		wanted[strings.ToLower(model.CleanSource(m))] = struct{}{}
	}

	var mods []Mod
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "@") {
			continue
		}
		name := model.CleanSource(entry.Name())
		if len(wanted) > 0 {
			if _, ok := wanted[strings.ToLower(name)]; !ok {
				continue
			}
		}
		mods = append(mods, Mod{Name: name, Path: filepath.Join(s.cfg.GameDir, entry.Name())})
	}
	sort.Slice(mods, func(i, j int) bool { return mods[i].Name < mods[j].Name })

	logger.Info("Mod discovery finished.", "found", len(mods))
	return mods, nil
}

// buildTasks walks every mod for PBO archives and loose code files. The
// configured PBO limit caps archives across the whole scan.
func (s *Scanner) buildTasks(ctx context.Context, mods []Mod) ([]task, error) {
	logger := ctxlog.FromContext(ctx)

	var tasks []task
	pbos := 0
	for _, mod := range mods {
		archives, err := fsutil.FindFilesByExtensions(mod.Path, []string{".pbo"})
		if err != nil {
			return nil, fmt.Errorf("walking mod %s: %w", mod.Name, err)
		}
		for _, archive := range archives {
			if s.cfg.PBOLimit > 0 && pbos >= s.cfg.PBOLimit {
				logger.Warn("PBO limit reached, skipping remaining archives.", "limit", s.cfg.PBOLimit)
				break
			}
			tasks = append(tasks, task{mod: mod, path: archive, isPBO: true})
			pbos++
		}

		loose, err := fsutil.FindFilesByExtensions(mod.Path, s.cfg.CodeExtensions)
		if err != nil {
			return nil, fmt.Errorf("walking mod %s: %w", mod.Name, err)
		}
		for _, file := range loose {
			tasks = append(tasks, task{mod: mod, path: file})
		}
	}

	logger.Debug("Scan tasks built.", "tasks", len(tasks), "pbos", pbos)
	return tasks, nil
}

// Scan runs the full pipeline: discover mods, fan tasks out to the worker
// pool, merge every worker's raw classes into one hierarchy build and feed
// the asset cache. Task-level failures are collected on the result; only
// discovery and cache failures abort the scan.
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	started := time.Now()

	mods, err := s.DiscoverMods(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.buildTasks(ctx, mods)
	if err != nil {
		return nil, err
	}

	taskChan := make(chan task)
	resultChan := make(chan taskResult)

	var wg sync.WaitGroup
	for workerID := 0; workerID < s.cfg.Workers; workerID++ {
		workerID := workerID
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.worker(ctx, workerID, taskChan, resultChan)
		}()
	}
	go func() {
		defer close(taskChan)
		for _, t := range tasks {
			select {
			case taskChan <- t:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(resultChan)
	}()

	var raws []classparser.RawClass
	var assets []model.Asset
	var errs []error
	for res := range resultChan {
		if res.err != nil {
			errs = append(errs, res.err)
			continue
		}
		raws = append(raws, res.raws...)
		assets = append(assets, res.assets...)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reg, hierarchy := classparser.BuildHierarchy(raws)
	if err := s.cache.AddBulk(assets); err != nil {
		return nil, err
	}

	logger.Info("Scan finished.",
		"mods", len(mods),
		"classes", reg.Len(),
		"assets", len(assets),
		"errors", len(errs),
		"duration", time.Since(started))

	return &Result{
		Registry:  reg,
		Hierarchy: hierarchy,
		Mods:      mods,
		Assets:    len(assets),
		ScanTime:  started,
		Errors:    errs,
	}, nil
}
