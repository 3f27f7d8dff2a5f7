package tpl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cbroglie/mustache"
	"github.com/mattn/go-zglob"
	"github.com/spf13/afero"

	"github.com/galaxy-sec/galaxy-ops/pkg/galaxyerr"
)

// Engine renders a source tree into an output tree against a JSON-ish
// data context (spec.md §4.5). It is configured once per module/system
// (include/exclude globs, delimiter remap) and reused across renders.
type Engine struct {
	Fs      afero.Fs
	Include []string
	Exclude []string
	Delim   Delimiters
}

// New returns an Engine operating on the OS filesystem with no
// include/exclude filters and native {{ }} delimiters.
func New() *Engine {
	return &Engine{Fs: afero.NewOsFs()}
}

// decision is what the traversal decided to do with one file.
type decision int

const (
	decisionSkip decision = iota
	decisionCopy
	decisionRender
)

func (e *Engine) decide(relPath string) (decision, error) {
	if matchAny(e.Exclude, relPath) {
		return decisionCopy, nil
	}
	if len(e.Include) == 0 || matchAny(e.Include, relPath) {
		return decisionRender, nil
	}
	return decisionSkip, nil
}

func matchAny(globs []string, path string) bool {
	for _, g := range globs {
		if ok, err := zglob.Match(g, path); err == nil && ok {
			return true
		}
		if ok, err := zglob.Match(g, filepath.Base(path)); err == nil && ok {
			return true
		}
	}
	return false
}

// RenderTree walks src depth-first and renders it into dst against
// data. Directories are mirrored; files are excluded (byte-identical
// copy), rendered, or skipped entirely per decide(). The first file
// that fails aborts the whole tree render; files already written are
// not rolled back (spec.md §4.5 failure propagation).
func (e *Engine) RenderTree(src, dst string, data map[string]interface{}) error {
	info, err := e.Fs.Stat(src)
	if err != nil {
		return galaxyerr.New(galaxyerr.KindResourceMissing, "localize", err, src)
	}
	if !info.IsDir() {
		return e.renderOne(src, dst, filepath.Base(src), data)
	}

	return afero.Walk(e.Fs, src, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(src, path)
		if relErr != nil {
			return relErr
		}
		target := filepath.Join(dst, rel)
		if fi.IsDir() {
			if rel == "." {
				return e.Fs.MkdirAll(dst, 0o755)
			}
			return e.Fs.MkdirAll(target, 0o755)
		}
		return e.renderOne(path, target, filepath.ToSlash(rel), data)
	})
}

func (e *Engine) renderOne(srcPath, dstPath, relPath string, data map[string]interface{}) error {
	dec, err := e.decide(relPath)
	if err != nil {
		return err
	}
	if dec == decisionSkip {
		return nil
	}

	if err := e.Fs.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return galaxyerr.New(galaxyerr.KindLogic, "localize", err, dstPath)
	}

	raw, err := afero.ReadFile(e.Fs, srcPath)
	if err != nil {
		return galaxyerr.New(galaxyerr.KindResourceMissing, "localize", err, srcPath)
	}

	if dec == decisionCopy {
		return e.writeOut(dstPath, raw)
	}

	rendered, err := e.render(string(raw), filepath.Ext(srcPath), data)
	if err != nil {
		return galaxyerr.New(galaxyerr.KindRenderMissingVar, "localize", err, srcPath)
	}
	return e.writeOut(dstPath, []byte(rendered))
}

func (e *Engine) render(src, ext string, data map[string]interface{}) (string, error) {
	prefix, _ := commentPrefixFor(ext)
	stripped, originalLines := stripComments(src, prefix)

	remapped := remapIn(stripped, e.Delim)

	mustache.AllowMissingVariables = false
	out, err := mustache.Render(remapped, data)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", ext, err)
	}

	out = remapOut(out, e.Delim)
	out = splice(out, originalLines)
	return out, nil
}

// writeOut writes data to dstPath, setting POSIX mode 0644 (spec.md
// §4.5.5).
func (e *Engine) writeOut(dstPath string, data []byte) error {
	if err := afero.WriteFile(e.Fs, dstPath, data, 0o644); err != nil {
		return galaxyerr.New(galaxyerr.KindLogic, "localize", err, dstPath)
	}
	return e.Fs.Chmod(dstPath, 0o644)
}

// EnsureUnderRoot verifies that path is a descendant of root, never
// escaping it via traversal (spec.md §8 invariant 6).
func EnsureUnderRoot(root, path string) error {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return galaxyerr.New(galaxyerr.KindResourceConflict, "localize", fmt.Errorf("%q escapes root %q", path, root))
	}
	return nil
}
