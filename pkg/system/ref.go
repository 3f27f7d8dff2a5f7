// Package system implements the system spec and module references
// (C7): a named collection of module refs sharing a variable scope,
// each owning its own module's cache slot until that module is
// resolved and localized.
package system

import (
	"context"
	"path/filepath"

	"github.com/galaxy-sec/galaxy-ops/pkg/addr"
	"github.com/galaxy-sec/galaxy-ops/pkg/conf"
	"github.com/galaxy-sec/galaxy-ops/pkg/download"
	"github.com/galaxy-sec/galaxy-ops/pkg/galaxyerr"
	"github.com/galaxy-sec/galaxy-ops/pkg/module"
	"github.com/galaxy-sec/galaxy-ops/pkg/tpl"
	"github.com/galaxy-sec/galaxy-ops/pkg/vars"
)

const stagingDir = "__mod"

// ModuleReference is {name, address, target model, enable-flag,
// optional template-override, local-path?}. It owns the referenced
// module's cache slot; the module spec itself is not loaded until
// after UpdateLocal places it (spec.md §3, §4.7).
type ModuleReference struct {
	Name             string      `json:"name"`
	Address          addr.Address `json:"address"`
	Model            module.Model `json:"model"`
	Enable           bool        `json:"enable"`
	TemplateOverride string      `json:"template_override,omitempty"`
	LocalPath        string      `json:"-"`
}

// UpdateLocal fetches the referenced module under sysRoot/__mod
// (staging), renames it into sysRoot/<name>/, loads the resolved
// module spec, recursively updates each target's dependency set, then
// prunes every target but the ref's own model (spec.md §4.7).
func (r *ModuleReference) UpdateLocal(ctx context.Context, dl *download.Downloader, sysRoot string, opts download.Options) (download.UpdateUnit, error) {
	if !r.Enable {
		return download.UpdateUnit{}, nil
	}

	staged, err := dl.Download(ctx, r.Address, filepath.Join(sysRoot, stagingDir), opts)
	if err != nil {
		return download.UpdateUnit{}, galaxyerr.New(galaxyerr.KindDownloadFailed, "system.update_local", err, r.Name)
	}

	finalPath := filepath.Join(sysRoot, r.Name)
	placed, err := dl.RenameTo(staged.Position, finalPath)
	if err != nil {
		return download.UpdateUnit{}, err
	}
	r.LocalPath = placed

	spec, err := module.LoadSpec(placed)
	if err != nil {
		return download.UpdateUnit{}, err
	}
	for _, target := range spec.Targets {
		if err := target.Dependencies.Update(ctx, dl, opts); err != nil {
			return download.UpdateUnit{}, galaxyerr.New(galaxyerr.KindDownloadFailed, "system.update_local", err, r.Name)
		}
	}
	if err := module.CleanOther(placed, r.Model); err != nil {
		return download.UpdateUnit{}, err
	}
	return download.UpdateUnit{Position: placed}, nil
}

// Localize loads the module previously resolved by UpdateLocal and
// renders it against the given global value layer; if the ref carries
// a template-override, that override renders after the module's own
// render, so it wins on any conflicting output path (spec.md §4.7).
func (r *ModuleReference) Localize(global *vars.Dict) error {
	if !r.Enable {
		return nil
	}
	if r.LocalPath == "" {
		return galaxyerr.New(galaxyerr.KindResourceMissing, "system.localize", nil, r.Name)
	}

	spec, err := module.LoadSpec(r.LocalPath)
	if err != nil {
		return err
	}
	ms, ok := spec.Target(r.Model)
	if !ok {
		return galaxyerr.New(galaxyerr.KindResourceMissing, "system.localize", nil, r.Name, r.Model.String())
	}

	if err := ms.Localize(module.LocalizeOptions{Global: global}); err != nil {
		return err
	}

	if r.TemplateOverride != "" {
		overrideEngine := tplEngineFor(ms)
		localDir := filepath.Join(ms.LocalPath, "local")
		usedData, err := usedDataFor(filepath.Join(ms.LocalPath, "value"))
		if err != nil {
			return err
		}
		if err := overrideEngine.RenderTree(r.TemplateOverride, localDir, usedData); err != nil {
			return galaxyerr.New(galaxyerr.KindRenderMissingVar, "system.localize.override", err, r.Name)
		}
	}
	return nil
}

// tplEngineFor builds the template engine an override render should
// use: the same delimiter setting as the module's own render, so a
// Helm-style override under a non-native delimiter still works.
func tplEngineFor(ms *module.ModelSpec) *tpl.Engine {
	engine := tpl.New()
	engine.Delim = ms.Setting.Delimiters()
	return engine
}

// usedDataFor reloads the used.json this ref's own Localize call just
// wrote, so the override render sees the same resolved values.
func usedDataFor(refValueDir string) (map[string]interface{}, error) {
	var data map[string]interface{}
	if err := conf.FromConf(filepath.Join(refValueDir, "used.json"), &data); err != nil {
		return nil, err
	}
	return data, nil
}
