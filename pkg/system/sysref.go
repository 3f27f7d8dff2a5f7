package system

import (
	"context"

	"github.com/galaxy-sec/galaxy-ops/pkg/addr"
	"github.com/galaxy-sec/galaxy-ops/pkg/download"
	"github.com/galaxy-sec/galaxy-ops/pkg/vars"
)

// Ref is a project-level reference to a system package: {name, address,
// enable-flag, local-path?}. Unlike a ModuleReference it is not staged
// under a dedicated subdirectory before renaming — a system package
// lands directly at <project-root>/<name> (spec.md §3 Project,
// "system-refs").
type Ref struct {
	Name      string      `json:"name"`
	Address   addr.Address `json:"address"`
	Enable    bool        `json:"enable"`
	LocalPath string      `json:"-"`
}

// UpdateLocal fetches the referenced system package into
// projectRoot/<name>, then loads and updates the resolved system spec
// in place.
func (r *Ref) UpdateLocal(ctx context.Context, dl *download.Downloader, projectRoot string, opts download.Options) error {
	if !r.Enable {
		return nil
	}
	unit, err := dl.DownloadRename(ctx, r.Address, projectRoot, r.Name, opts)
	if err != nil {
		return err
	}
	r.LocalPath = unit.Position

	spec, err := LoadSpec(r.LocalPath)
	if err != nil {
		return err
	}
	return spec.UpdateLocal(ctx, dl, opts)
}

// Localize loads the resolved system spec and renders every module ref
// it owns against the given global value layer.
func (r *Ref) Localize(global *vars.Dict) error {
	if !r.Enable {
		return nil
	}
	spec, err := LoadSpec(r.LocalPath)
	if err != nil {
		return err
	}
	return spec.Localize(global)
}
