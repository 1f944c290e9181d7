package assetcache

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vk/modscango/internal/model"
)

// DefaultMaxSize bounds the cache when the configuration does not.
const DefaultMaxSize = 1_000_000

// Cache stores assets keyed by normalized path, evicting least recently
// used entries past the size bound. Lookups by source mod, extension and
// case-insensitive path go through secondary indices kept in step with the
// LRU via its eviction callback.
type Cache struct {
	mu        sync.RWMutex
	assets    *lru.Cache[string, model.Asset]
	bySource  map[string]map[string]struct{}
	byExt     map[string]map[string]struct{}
	lowerPath map[string]string
	maxSize   int
}

// New creates a cache bounded to maxSize entries. A non-positive maxSize
// falls back to DefaultMaxSize.
func New(maxSize int) (*Cache, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	c := &Cache{
		bySource:  make(map[string]map[string]struct{}),
		byExt:     make(map[string]map[string]struct{}),
		lowerPath: make(map[string]string),
		maxSize:   maxSize,
	}

	// The callback runs inside lru operations, which only happen while the
	// cache mutex is held, so it mutates the indices without relocking.
	assets, err := lru.NewWithEvict(maxSize, c.dropFromIndices)
	if err != nil {
		return nil, fmt.Errorf("creating asset cache: %w", err)
	}
	c.assets = assets
	return c, nil
}

// Add inserts or refreshes a single asset.
func (c *Cache) Add(a model.Asset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.add(a)
}

// AddBulk inserts a batch of assets. The batch is rejected outright when it
// alone exceeds the cache bound, matching the size guard on scan results.
func (c *Cache) AddBulk(assets []model.Asset) error {
	if len(assets) > c.maxSize {
		return fmt.Errorf("asset batch of %d exceeds cache size %d", len(assets), c.maxSize)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range assets {
		c.add(a)
	}
	return nil
}

func (c *Cache) add(a model.Asset) {
	path := model.NormalizePath(a.Path)
	a.Path = path
	a.Source = model.CleanSource(a.Source)

	if old, ok := c.assets.Peek(path); ok {
		c.dropFromIndices(path, old)
	}
	c.assets.Add(path, a)

	if c.bySource[a.Source] == nil {
		c.bySource[a.Source] = make(map[string]struct{})
	}
	c.bySource[a.Source][path] = struct{}{}

	ext := a.Extension()
	if c.byExt[ext] == nil {
		c.byExt[ext] = make(map[string]struct{})
	}
	c.byExt[ext][path] = struct{}{}

	c.lowerPath[strings.ToLower(path)] = path
}

// dropFromIndices removes an evicted or replaced entry from the secondary
// indices. Callers hold the cache mutex.
func (c *Cache) dropFromIndices(path string, a model.Asset) {
	if paths, ok := c.bySource[a.Source]; ok {
		delete(paths, path)
		if len(paths) == 0 {
			delete(c.bySource, a.Source)
		}
	}
	ext := a.Extension()
	if paths, ok := c.byExt[ext]; ok {
		delete(paths, path)
		if len(paths) == 0 {
			delete(c.byExt, ext)
		}
	}
	lower := strings.ToLower(path)
	if c.lowerPath[lower] == path {
		delete(c.lowerPath, lower)
	}
}

// Get looks an asset up by its exact normalized path.
func (c *Cache) Get(path string) (model.Asset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.assets.Get(model.NormalizePath(path))
}

// GetIgnoreCase looks an asset up by path ignoring letter case.
func (c *Cache) GetIgnoreCase(path string) (model.Asset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	canonical, ok := c.lowerPath[strings.ToLower(model.NormalizePath(path))]
	if !ok {
		return model.Asset{}, false
	}
	return c.assets.Get(canonical)
}

// BySource returns all assets from the named mod, sorted by path. The @
// prefix on the source name is ignored.
func (c *Cache) BySource(source string) []model.Asset {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collect(c.bySource[model.CleanSource(source)])
}

// ByExtension returns all assets with the given extension, sorted by path.
func (c *Cache) ByExtension(ext string) []model.Asset {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collect(c.byExt[strings.ToLower(ext)])
}

func (c *Cache) collect(paths map[string]struct{}) []model.Asset {
	if len(paths) == 0 {
		return nil
	}
	sorted := make([]string, 0, len(paths))
	for p := range paths {
		sorted = append(sorted, p)
	}
	sort.Strings(sorted)

	assets := make([]model.Asset, 0, len(sorted))
	for _, p := range sorted {
		if a, ok := c.assets.Peek(p); ok {
			assets = append(assets, a)
		}
	}
	return assets
}

// Duplicates groups cached assets sharing a filename, returning only the
// names carried by more than one path.
func (c *Cache) Duplicates() map[string][]model.Asset {
	c.mu.Lock()
	defer c.mu.Unlock()

	byName := make(map[string][]model.Asset)
	for _, path := range c.assets.Keys() {
		a, ok := c.assets.Peek(path)
		if !ok {
			continue
		}
		name := strings.ToLower(a.Filename())
		byName[name] = append(byName[name], a)
	}

	dupes := make(map[string][]model.Asset)
	for name, assets := range byName {
		if len(assets) < 2 {
			continue
		}
		sort.Slice(assets, func(i, j int) bool { return assets[i].Path < assets[j].Path })
		dupes[name] = assets
	}
	return dupes
}

// Len returns the number of cached assets.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.assets.Len()
}

// Paths returns every cached path, sorted.
func (c *Cache) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, c.assets.Len())
	paths = append(paths, c.assets.Keys()...)
	sort.Strings(paths)
	return paths
}
