// Package pbo wraps the external extractpbo tool for listing and extracting
// the contents of PBO archives.
package pbo
