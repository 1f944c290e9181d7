package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/modscango/internal/assetcache"
	"github.com/vk/modscango/internal/config"
)

func writeFile(t *testing.T, root string, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newScanner(t *testing.T, gameDir string, mutate func(*config.Scan)) *Scanner {
	t.Helper()
	cfg := config.Default().Scan
	cfg.GameDir = gameDir
	cfg.Workers = 2
	if mutate != nil {
		mutate(cfg)
	}
	cache, err := assetcache.New(cfg.MaxCacheSize)
	require.NoError(t, err)
	return New(cfg, cache)
}

func TestDiscoverMods(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "@ace"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "@cup"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Expansion"), 0o755))
	writeFile(t, dir, "notes.txt", "x")

	s := newScanner(t, dir, nil)
	mods, err := s.DiscoverMods(context.Background())
	require.NoError(t, err)

	require.Len(t, mods, 2, "only @ folders are mods")
	assert.Equal(t, "ace", mods[0].Name)
	assert.Equal(t, "cup", mods[1].Name)
}

func TestDiscoverModsFilter(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "@ace"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "@cup"), 0o755))

	s := newScanner(t, dir, func(cfg *config.Scan) {
		cfg.Mods = []string{"@ACE"}
	})
	mods, err := s.DiscoverMods(context.Background())
	require.NoError(t, err)

	require.Len(t, mods, 1, "filter matches ignoring case and @ prefix")
	assert.Equal(t, "ace", mods[0].Name)
}

func TestDiscoverModsMissingGameDir(t *testing.T) {
	s := newScanner(t, filepath.Join(t.TempDir(), "nope"), nil)
	_, err := s.DiscoverMods(context.Background())
	assert.Error(t, err)
}

func TestBuildTasksPBOLimit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "@mod/addons/a.pbo", "")
	writeFile(t, dir, "@mod/addons/b.pbo", "")
	writeFile(t, dir, "@mod/addons/c.pbo", "")

	s := newScanner(t, dir, func(cfg *config.Scan) {
		cfg.PBOLimit = 2
	})
	mods, err := s.DiscoverMods(context.Background())
	require.NoError(t, err)

	tasks, err := s.buildTasks(context.Background(), mods)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestScanLooseFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "@weapons/config.cpp", `
class CfgWeapons {
	class Rifle {
		displayName = "Rifle";
		magazines[] = {"mag30"};
	};
	class Carbine : Rifle {
		displayName = "Carbine";
	};
};
`)
	writeFile(t, dir, "@vehicles/addons/script.sqf", `x = 1;`)

	s := newScanner(t, dir, nil)
	result, err := s.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Errors)

	require.Equal(t, 2, result.Registry.Len())
	carbine, ok := result.Registry.Get("CfgWeapons", "Carbine")
	require.True(t, ok)
	assert.Equal(t, "weapons", carbine.SourceMod)

	props, ok := result.Hierarchy.AllProperties("CfgWeapons", "Carbine")
	require.True(t, ok)
	assert.Equal(t, "Carbine", props["displayName"].Str)
	assert.Contains(t, props, "magazines")

	// Both loose files landed in the cache as assets.
	assert.Equal(t, 2, result.Assets)
	assert.Equal(t, 2, s.cache.Len())
	require.Len(t, s.cache.BySource("weapons"), 1)
	assert.Equal(t, "config.cpp", s.cache.BySource("weapons")[0].Path)
}

func TestScanMergesAcrossMods(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "@base/config.cpp", `class CfgVehicles { class Car { wheels = 4; }; };`)
	writeFile(t, dir, "@extra/config.cpp", `class CfgVehicles { class FastCar : Car { speed = 200; }; };`)

	s := newScanner(t, dir, nil)
	result, err := s.Scan(context.Background())
	require.NoError(t, err)

	// Inheritance resolves across file and mod boundaries.
	props, ok := result.Hierarchy.AllProperties("CfgVehicles", "FastCar")
	require.True(t, ok)
	assert.Equal(t, float64(4), props["wheels"].Num)
	assert.Equal(t, float64(200), props["speed"].Num)
}

func TestScanEmptyGameDir(t *testing.T) {
	s := newScanner(t, t.TempDir(), nil)
	result, err := s.Scan(context.Background())
	require.NoError(t, err)

	assert.Empty(t, result.Mods)
	assert.Equal(t, 0, result.Registry.Len())
	assert.Equal(t, 0, result.Assets)
}

func TestScanCancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "@mod/config.cpp", `class X { a = 1; };`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newScanner(t, dir, nil)
	_, err := s.Scan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
