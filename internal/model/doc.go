// Package model defines the shared data types produced by a scan: assets
// discovered on disk or inside PBO archives, and the aggregate scan result.
package model
