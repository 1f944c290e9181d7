package model

import (
	"path"
	"strings"
	"time"
)

// Asset is a single scanned game file, identified by its normalized
// forward-slash path. Assets found inside a PBO archive carry the archive
// path; loose files do not.
type Asset struct {
	Path      string
	Source    string
	PBOPath   string
	HasPrefix bool
	LastScan  time.Time
}

// NewAsset builds an asset with its paths normalized and the source name
// cleaned. A leading @ on the source (the mod folder convention) is stripped.
func NewAsset(assetPath, source string) Asset {
	return Asset{
		Path:      NormalizePath(assetPath),
		Source:    CleanSource(source),
		HasPrefix: true,
		LastScan:  time.Now(),
	}
}

// Filename returns the final path element.
func (a Asset) Filename() string {
	return path.Base(a.Path)
}

// Extension returns the lowercased file extension, including the dot.
func (a Asset) Extension() string {
	return strings.ToLower(path.Ext(a.Path))
}

// NormalizePath converts backslashes to forward slashes and trims leading
// and trailing separators, yielding the canonical asset path form.
func NormalizePath(p string) string {
	return strings.Trim(strings.ReplaceAll(p, `\`, "/"), "/")
}

// CleanSource strips the mod folder @ prefix from a source name.
func CleanSource(source string) string {
	return strings.TrimPrefix(source, "@")
}

// ScanResult aggregates the assets produced by one scan pass.
type ScanResult struct {
	Assets   []Asset
	ScanTime time.Time
}
