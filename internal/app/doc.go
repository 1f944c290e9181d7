// Package app wires the configuration, logger, scanner and reporter into
// the application lifecycle.
package app
