package system

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/galaxy-sec/galaxy-ops/pkg/download"
	"github.com/galaxy-sec/galaxy-ops/pkg/vars"
)

// Definition is the system's own identity: {name, repo}, the address
// the system package itself was fetched from (spec.md §3).
type Definition struct {
	Name string `json:"name"`
	Repo string `json:"repo,omitempty"`
}

// Spec is {definition, module-ref list, vars, local-path?}: a named
// collection of module references sharing one variable scope
// (spec.md §3, §4.7).
type Spec struct {
	Definition Definition         `json:"definition"`
	Refs       []*ModuleReference `json:"refs"`
	Vars       *vars.Collection   `json:"vars,omitempty"`
	LocalPath  string             `json:"-"`
}

// NewSpec returns an empty Spec named name.
func NewSpec(name string) *Spec {
	return &Spec{Definition: Definition{Name: name}}
}

// AddRef appends a module reference to the system.
func (s *Spec) AddRef(ref *ModuleReference) {
	s.Refs = append(s.Refs, ref)
}

// modsDir is where module refs land once resolved: sys-root/mods/<name>
// (spec.md §6's filesystem layout).
func (s *Spec) modsDir() string {
	return filepath.Join(s.LocalPath, "mods")
}

// UpdateLocal fans out UpdateLocal to every ref in declaration order;
// an individual ref failure aborts the batch (spec.md §4.7 — refs
// update sequentially, unlike a dependency set's concurrent fan-out).
func (s *Spec) UpdateLocal(ctx context.Context, dl *download.Downloader, opts download.Options) error {
	for _, ref := range s.Refs {
		if _, err := ref.UpdateLocal(ctx, dl, s.modsDir(), opts); err != nil {
			return fmt.Errorf("system ref %q: %w", ref.Name, err)
		}
	}
	return nil
}

// Localize fans out Localize to every ref in declaration order,
// merging the system's own vars into the global layer each ref sees
// ahead of its module defaults.
func (s *Spec) Localize(global *vars.Dict) error {
	scoped := vars.NewDict()
	scoped.Merge(global)
	if s.Vars != nil {
		scoped.Merge(s.Vars.DefaultDict())
	}
	for _, ref := range s.Refs {
		if err := ref.Localize(scoped); err != nil {
			return fmt.Errorf("system ref %q: %w", ref.Name, err)
		}
	}
	return nil
}
