package project

import (
	"context"
	"os"
	"path/filepath"

	"github.com/galaxy-sec/galaxy-ops/pkg/conf"
	"github.com/galaxy-sec/galaxy-ops/pkg/download"
	"github.com/galaxy-sec/galaxy-ops/pkg/vars"
)

const (
	confFileName   = "ops-prj.yml"
	legacyFileName = "sys_prj.yml"
	valueFileName  = "value.yml"
)

// Project is the loaded workspace: {conf, opaque workflow text,
// root-local, value-dict} (spec.md §3).
type Project struct {
	Conf      Conf
	WorkGXL   []byte // _gal/work.gxl
	AdmGXL    []byte // _gal/adm.gxl
	RootLocal string
	ValDict   *vars.Dict
}

// Load implements Project load(root): read ops-prj.yml (renaming a
// legacy sys_prj.yml first), read _gal/work.gxl and _gal/adm.gxl
// opaque, read value/value.yml (bootstrapping a sample entry if
// missing), and set every system ref's local path to root/<name>
// without resolving it (spec.md §4.8).
func Load(root string) (*Project, error) {
	if err := migrateLegacyConf(root); err != nil {
		return nil, err
	}

	confPath := filepath.Join(root, confFileName)
	var pc Conf
	if conf.Exists(confPath) {
		if err := conf.FromConf(confPath, &pc); err != nil {
			return nil, err
		}
	} else {
		pc = NewConf(filepath.Base(root))
	}

	p := &Project{Conf: pc, RootLocal: root}
	for _, ref := range p.Conf.Systems {
		ref.LocalPath = filepath.Join(root, ref.Name)
	}

	if data, err := os.ReadFile(filepath.Join(root, "_gal", "work.gxl")); err == nil {
		p.WorkGXL = data
	}
	if data, err := os.ReadFile(filepath.Join(root, "_gal", "adm.gxl")); err == nil {
		p.AdmGXL = data
	}

	dict, err := loadOrBootstrapValueDict(root)
	if err != nil {
		return nil, err
	}
	p.ValDict = dict

	return p, nil
}

// Save persists the project config, opaque workflow text, and value
// dict back under RootLocal, writing only the current ops-prj.yml
// filename (spec.md §9 Open Questions).
func (p *Project) Save() error {
	if err := conf.SaveConf(filepath.Join(p.RootLocal, confFileName), p.Conf); err != nil {
		return err
	}
	if len(p.WorkGXL) > 0 {
		if err := writeGXL(filepath.Join(p.RootLocal, "_gal", "work.gxl"), p.WorkGXL); err != nil {
			return err
		}
	}
	if len(p.AdmGXL) > 0 {
		if err := writeGXL(filepath.Join(p.RootLocal, "_gal", "adm.gxl"), p.AdmGXL); err != nil {
			return err
		}
	}
	valuePath := filepath.Join(p.RootLocal, "value", valueFileName)
	if err := conf.SaveConf(valuePath, p.ValDict.ToMap()); err != nil {
		return err
	}
	return writeGitignore(p.RootLocal)
}

// Update implements Project update(options): update the work-env
// dependency set, then call update_local on each system ref in
// declared order (spec.md §4.8).
func (p *Project) Update(ctx context.Context, dl *download.Downloader, opts download.Options) error {
	if err := p.Conf.WorkEnvs.Update(ctx, dl, opts); err != nil {
		return err
	}
	for _, ref := range p.Conf.Systems {
		if err := ref.UpdateLocal(ctx, dl, p.RootLocal, opts); err != nil {
			return err
		}
	}
	return p.Save()
}

// Localize implements Project localize(options): ensure value/ exists,
// env-evaluate value.yml to a fixed point into the global dict, then
// hand that dict to every system ref's localize in declared order
// (spec.md §4.8).
func (p *Project) Localize() error {
	dict, err := loadOrBootstrapValueDict(p.RootLocal)
	if err != nil {
		return err
	}
	global, err := dict.EnvEval(dict)
	if err != nil {
		return err
	}
	p.ValDict = global

	for _, ref := range p.Conf.Systems {
		if err := ref.Localize(global); err != nil {
			return err
		}
	}
	return nil
}

func migrateLegacyConf(root string) error {
	current := filepath.Join(root, confFileName)
	if conf.Exists(current) {
		return nil
	}
	legacy := filepath.Join(root, legacyFileName)
	if conf.Exists(legacy) {
		return os.Rename(legacy, current)
	}
	return nil
}

func loadOrBootstrapValueDict(root string) (*vars.Dict, error) {
	valuePath := filepath.Join(root, "value", valueFileName)
	if !conf.Exists(valuePath) {
		d := vars.NewDict()
		d.Insert("project_name", vars.String(filepath.Base(root)))
		if err := conf.SaveConf(valuePath, d.ToMap()); err != nil {
			return nil, err
		}
		return d, nil
	}
	return vars.DictFromYAMLFile(valuePath)
}

func writeGXL(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func writeGitignore(root string) error {
	path := filepath.Join(root, ".gitignore")
	if conf.Exists(path) {
		return nil
	}
	return os.WriteFile(path, []byte("value/used.*\n*/mods/*/mod/*/local/\n"), 0o644)
}
