package pbo

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/vk/modscango/internal/ctxlog"
)

// DefaultTimeout bounds a single extractpbo invocation.
const DefaultTimeout = 30 * time.Second

// CodeExtensions are the archive members read back as parseable text.
var CodeExtensions = []string{".cpp", ".hpp", ".sqf"}

// binRenames maps known binarized file names to their readable form. The
// extractpbo tool converts the content during extraction; only the name
// needs fixing.
var binRenames = map[string]string{
	"config.bin":      "config.cpp",
	"model.bin":       "model.cfg",
	"stringtable.bin": "stringtable.xml",
	"texheaders.bin":  "texHeaders.h",
}

// Extractor invokes the extractpbo binary with a per-call timeout and owns
// a temp directory for extracted files. Close releases the directory.
type Extractor struct {
	tool    string
	timeout time.Duration
	tempDir string
}

// NewExtractor builds an extractor using the extractpbo binary from PATH.
// A non-positive timeout falls back to DefaultTimeout.
func NewExtractor(timeout time.Duration) *Extractor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Extractor{tool: "extractpbo", timeout: timeout}
}

// Close removes the extractor's temp directory, if one was created.
func (e *Extractor) Close() error {
	if e.tempDir == "" {
		return nil
	}
	dir := e.tempDir
	e.tempDir = ""
	return os.RemoveAll(dir)
}

func (e *Extractor) workDir() (string, error) {
	if e.tempDir == "" {
		dir, err := os.MkdirTemp("", "pbo_extractor_")
		if err != nil {
			return "", fmt.Errorf("creating extraction dir: %w", err)
		}
		e.tempDir = dir
	}
	return e.tempDir, nil
}

// run invokes the tool with the per-call timeout layered onto ctx. The
// tool's stdout is returned even on failure, since diagnostics end up there.
func (e *Extractor) run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.tool, args...)
	out, err := cmd.Output()
	if err != nil {
		return string(out), fmt.Errorf("%s %s: %w", e.tool, strings.Join(args, " "), err)
	}
	return string(out), nil
}

// ListContents lists the archive's member paths in brief form.
func (e *Extractor) ListContents(ctx context.Context, pboPath string) (string, error) {
	// -LB: brief directory-style listing, -P: never pause for input.
	return e.run(ctx, "-LB", "-P", pboPath)
}

// ExtractFiles extracts the archive into outputDir, optionally restricted
// by a comma-separated wildcard filter. Known binarized members are renamed
// to their readable form afterwards.
func (e *Extractor) ExtractFiles(ctx context.Context, pboPath, outputDir, fileFilter string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	// -S: silent, -P: never pause, -Y: overwrite without asking.
	args := []string{"-S", "-P", "-Y"}
	if fileFilter != "" {
		args = append(args, "-F="+fileFilter)
	}
	args = append(args, pboPath, outputDir)

	if _, err := e.run(ctx, args...); err != nil {
		return err
	}
	return renameExtractedBins(ctx, outputDir)
}

// renameExtractedBins walks the extraction output renaming .bin members to
// their readable names.
func renameExtractedBins(ctx context.Context, dir string) error {
	logger := ctxlog.FromContext(ctx)
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".bin") {
			return nil
		}
		newName, ok := BinName(d.Name())
		if !ok {
			return nil
		}
		newPath := filepath.Join(filepath.Dir(path), newName)
		if err := os.Rename(path, newPath); err != nil {
			logger.Warn("Failed to rename binarized file.", "path", path, "error", err)
		}
		return nil
	})
}

// BinName maps a binarized file name to its readable form. Unknown .bin
// names with a second extension drop the .bin suffix; anything else is
// left alone.
func BinName(name string) (string, bool) {
	lower := strings.ToLower(name)
	if renamed, ok := binRenames[lower]; ok {
		return renamed, true
	}
	if !strings.HasSuffix(lower, ".bin") {
		return "", false
	}
	stem := name[:len(name)-len(".bin")]
	if strings.Contains(stem, ".") {
		return stem, true
	}
	return "", false
}

// Prefix extracts the archive prefix from tool output, handling both the
// "prefix=" header and the "PboPrefix:" listing form. The returned prefix
// uses forward slashes. An empty string means no prefix line was present.
func Prefix(output string) string {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		var raw string
		switch {
		case strings.HasPrefix(line, "prefix="):
			raw = strings.TrimPrefix(line, "prefix=")
		case strings.HasPrefix(line, "PboPrefix"):
			_, after, ok := strings.Cut(line, ":")
			if !ok {
				continue
			}
			raw = after
		default:
			continue
		}
		raw = strings.TrimSuffix(strings.TrimSpace(raw), ";")
		return strings.ReplaceAll(raw, `\`, "/")
	}
	return ""
}

// NormalizeMemberPath cleans an archive member path to the canonical
// forward-slash form, prepending the archive prefix when the path does not
// already carry it. Tool bookkeeping entries yield an empty string.
func NormalizeMemberPath(member, prefix string) string {
	clean := strings.Trim(strings.ReplaceAll(strings.TrimSpace(member), `\`, "/"), "/")

	if clean == "" || strings.HasPrefix(clean, "$") ||
		strings.HasPrefix(clean, "__") || strings.HasPrefix(clean, ".") {
		return ""
	}

	// Drop a drive component and any parent-directory escapes.
	if _, after, ok := strings.Cut(clean, ":"); ok {
		clean = strings.TrimLeft(after, `\/`)
	}
	parts := strings.Split(clean, "/")
	kept := parts[:0]
	for _, p := range parts {
		if p == "" || strings.HasPrefix(p, "..") {
			continue
		}
		kept = append(kept, p)
	}
	clean = strings.Join(kept, "/")
	if clean == "" {
		return ""
	}

	if prefix != "" {
		prefix = strings.Trim(strings.ReplaceAll(prefix, `\`, "/"), "/")
		if !strings.HasPrefix(clean, prefix) {
			clean = prefix + "/" + clean
		}
	}
	return clean
}

// ExtractCodeFiles extracts the archive's code files (plus binarized forms)
// and reads them back, keyed by path relative to the extraction root. A
// missing or unreadable member is logged and skipped.
func (e *Extractor) ExtractCodeFiles(ctx context.Context, pboPath string, extensions []string) (map[string]string, error) {
	logger := ctxlog.FromContext(ctx)
	if len(extensions) == 0 {
		extensions = CodeExtensions
	}
	search := append(append([]string(nil), extensions...), ".bin")

	listing, err := e.ListContents(ctx, pboPath)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", pboPath, err)
	}
	if !listingContainsAny(listing, search) {
		logger.Debug("No code files in archive.", "pbo", pboPath)
		return nil, nil
	}

	root, err := e.workDir()
	if err != nil {
		return nil, err
	}
	outDir := filepath.Join(root, strings.TrimSuffix(filepath.Base(pboPath), filepath.Ext(pboPath)))

	filters := make([]string, len(search))
	for i, ext := range search {
		filters[i] = "*" + ext
	}
	if err := e.ExtractFiles(ctx, pboPath, outDir, strings.Join(filters, ",")); err != nil {
		return nil, fmt.Errorf("extracting %s: %w", pboPath, err)
	}

	files, err := fsFilesByExt(outDir, extensions)
	if err != nil {
		return nil, err
	}

	code := make(map[string]string, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Failed to read extracted file.", "path", path, "error", err)
			continue
		}
		rel, err := filepath.Rel(outDir, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		code[filepath.ToSlash(rel)] = string(stripBOM(data))
	}
	return code, nil
}

// fsFilesByExt returns files under root whose extension matches, plus the
// fixed names renamed bin files can take.
func fsFilesByExt(root string, extensions []string) ([]string, error) {
	wanted := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		wanted[strings.ToLower(ext)] = struct{}{}
	}
	renamed := make(map[string]struct{}, len(binRenames))
	for _, name := range binRenames {
		renamed[strings.ToLower(name)] = struct{}{}
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		lower := strings.ToLower(d.Name())
		if _, ok := wanted[filepath.Ext(lower)]; ok {
			files = append(files, path)
			return nil
		}
		if _, ok := renamed[lower]; ok {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func listingContainsAny(listing string, extensions []string) bool {
	for _, line := range strings.Split(listing, "\n") {
		line = strings.TrimSpace(line)
		for _, ext := range extensions {
			if strings.HasSuffix(strings.ToLower(line), ext) {
				return true
			}
		}
	}
	return false
}

// stripBOM drops a UTF-8 byte order mark, which binarized configs often
// carry after conversion.
func stripBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}

// Contents holds one archive's scan output: the normalized member paths,
// the prefix, and any extracted code file contents.
type Contents struct {
	Prefix    string
	Paths     []string
	CodeFiles map[string]string
}

// ScanContents lists an archive and, when it carries code files, extracts
// and reads them, producing the archive's full contents in one pass.
func (e *Extractor) ScanContents(ctx context.Context, pboPath string) (*Contents, error) {
	listing, err := e.ListContents(ctx, pboPath)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", pboPath, err)
	}

	result := &Contents{Prefix: Prefix(listing)}
	seen := make(map[string]struct{})
	for _, line := range strings.Split(listing, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "Active code page:") ||
			strings.HasPrefix(line, "Opening ") || strings.HasPrefix(line, "==") {
			continue
		}
		if strings.HasPrefix(line, "prefix=") || strings.HasPrefix(line, "Prefix=") ||
			strings.HasPrefix(line, "PboPrefix") || strings.HasPrefix(line, "$") {
			continue
		}
		path := NormalizeMemberPath(line, result.Prefix)
		if path == "" {
			continue
		}
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}
		result.Paths = append(result.Paths, path)
	}

	if listingContainsAny(listing, append(append([]string(nil), CodeExtensions...), ".bin")) {
		code, err := e.ExtractCodeFiles(ctx, pboPath, CodeExtensions)
		if err != nil {
			return nil, err
		}
		result.CodeFiles = code
	}
	return result, nil
}
