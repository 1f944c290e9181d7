// Package assetcache holds the assets discovered by a scan in a bounded,
// thread-safe cache with secondary indices by source mod and file extension.
package assetcache
