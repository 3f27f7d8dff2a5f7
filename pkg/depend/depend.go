// Package depend implements the ordered dependency set (C4): a list of
// named external resources, each individually enable-able, that update
// into a shared local root.
package depend

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/galaxy-sec/galaxy-ops/pkg/addr"
	"github.com/galaxy-sec/galaxy-ops/pkg/download"
	"github.com/galaxy-sec/galaxy-ops/pkg/galaxyerr"
)

// Dependency is {address, target-local-path, optional rename,
// enable-flag}. The invariant after update is that
// target-local-path/(rename or last-url-segment) exists.
type Dependency struct {
	Name    string      `json:"name"`
	Address addr.Address `json:"address"`
	Target  string      `json:"target"`
	Rename  string      `json:"rename,omitempty"`
	Enable  bool        `json:"enable"`
}

// LocalName returns the name the realized entry will have on disk:
// Rename if set, else the address's last path segment.
func (dep Dependency) LocalName() string {
	if dep.Rename != "" {
		return dep.Rename
	}
	return dep.Address.LastPathSegment()
}

// RealizedPath returns where dep will live once updated, relative to
// the owning Set's local root.
func (dep Dependency) RealizedPath(localRoot string) string {
	return filepath.Join(localRoot, dep.Target, dep.LocalName())
}

// Set is {local-root, ordered dependencies}. Dependencies update
// concurrently/independently but their relative order is preserved for
// reporting (spec.md §4.4, §5).
type Set struct {
	LocalRoot    string       `json:"local_root"`
	Dependencies []Dependency `json:"dependencies"`
}

// Update runs every enabled dependency's download in declaration order
// for reporting purposes, fanning the actual fetches out concurrently
// via errgroup; any single failure aborts the whole batch (eager
// failure, no partial success per spec.md §4.4).
func (s *Set) Update(ctx context.Context, dl *download.Downloader, opts download.Options) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := range s.Dependencies {
		dep := s.Dependencies[i]
		if !dep.Enable {
			continue
		}
		g.Go(func() error {
			destDir := filepath.Join(s.LocalRoot, dep.Target)
			var err error
			if dep.Rename != "" {
				_, err = dl.DownloadRename(ctx, dep.Address, destDir, dep.Rename, opts)
			} else {
				_, err = dl.Download(ctx, dep.Address, destDir, opts)
			}
			if err != nil {
				return fmt.Errorf("dependency %q: %w", dep.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// CheckExists verifies every enabled dependency has a realized local
// path, for idempotent re-runs (spec.md §4.4's check_exists).
func (s *Set) CheckExists(fileExists func(string) bool) error {
	for _, dep := range s.Dependencies {
		if !dep.Enable {
			continue
		}
		path := dep.RealizedPath(s.LocalRoot)
		if !fileExists(path) {
			return galaxyerr.New(galaxyerr.KindResourceMissing, "check_exists", nil, path)
		}
	}
	return nil
}
