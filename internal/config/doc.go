// Package config loads the tool configuration from an HCL file and applies
// defaults for everything the file leaves unset.
package config
