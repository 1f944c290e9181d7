package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/modscango/internal/assetcache"
	"github.com/vk/modscango/internal/pbo"
)

// File is the root of the modscan.hcl configuration.
type File struct {
	Scan   *Scan   `hcl:"scan,block"`
	Report *Report `hcl:"report,block"`
}

// Scan configures discovery and parsing.
type Scan struct {
	GameDir           string   `hcl:"game_dir"`
	Mods              []string `hcl:"mods,optional"`
	CodeExtensions    []string `hcl:"code_extensions,optional"`
	Workers           int      `hcl:"workers,optional"`
	MaxCacheSize      int      `hcl:"max_cache_size,optional"`
	PBOTimeoutSeconds int      `hcl:"pbo_timeout_seconds,optional"`
	PBOLimit          int      `hcl:"pbo_limit,optional"`
}

// Report configures registry output.
type Report struct {
	Format string `hcl:"format,optional"`
	Output string `hcl:"output,optional"`
}

// Load parses and decodes an HCL configuration file, then fills in
// defaults. The expressions in the file can reference cwd and home.
func Load(path string) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}

	var cfg File
	diags = gohcl.DecodeBody(hclFile.Body, evalContext(), &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, diags)
	}

	ApplyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a configuration with every field at its default.
func Default() *File {
	cfg := &File{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills unset fields in place. It is safe to call on a
// partially populated configuration.
func ApplyDefaults(cfg *File) {
	if cfg.Scan == nil {
		cfg.Scan = &Scan{}
	}
	if cfg.Report == nil {
		cfg.Report = &Report{}
	}
	if len(cfg.Scan.CodeExtensions) == 0 {
		cfg.Scan.CodeExtensions = append([]string(nil), pbo.CodeExtensions...)
	}
	if cfg.Scan.Workers <= 0 {
		cfg.Scan.Workers = runtime.NumCPU()
	}
	if cfg.Scan.MaxCacheSize <= 0 {
		cfg.Scan.MaxCacheSize = assetcache.DefaultMaxSize
	}
	if cfg.Scan.PBOTimeoutSeconds <= 0 {
		cfg.Scan.PBOTimeoutSeconds = int(pbo.DefaultTimeout.Seconds())
	}
	if cfg.Report.Format == "" {
		cfg.Report.Format = "text"
	}
}

// evalContext exposes cwd and home as variables to config expressions.
// Lookup failures leave the variable as an empty string rather than
// failing the load.
func evalContext() *hcl.EvalContext {
	cwd, _ := os.Getwd()
	home, _ := os.UserHomeDir()
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"cwd":  cty.StringVal(cwd),
			"home": cty.StringVal(home),
		},
	}
}
