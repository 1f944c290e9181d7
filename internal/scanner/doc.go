// Package scanner discovers mod content on disk and fans it out to a pool
// of workers that extract archives, parse config files and feed the asset
// cache and the combined class registry.
package scanner
