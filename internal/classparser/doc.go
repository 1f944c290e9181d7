// Package classparser parses the declarative configuration language embedded
// in game-mod content (config.cpp and friends) into a flat, queryable class
// registry with inheritance resolved.
//
// The pipeline is: Preprocess strips comments and collapses whitespace while
// respecting string literals; ScanBlocks extracts a forest of raw class/enum
// blocks; the property and value parsers turn block bodies into typed values;
// BuildHierarchy resolves inheritance over the resulting class graph,
// quarantining cyclic definitions instead of failing.
//
// Mod content is produced by many independent authors, so the package favors
// "parse as much as possible, skip the rest": only unreadable input surfaces
// as an error, malformed fragments are logged and dropped.
package classparser
