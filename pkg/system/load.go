package system

import (
	"path/filepath"

	"github.com/galaxy-sec/galaxy-ops/pkg/conf"
	"github.com/galaxy-sec/galaxy-ops/pkg/galaxyerr"
	"github.com/galaxy-sec/galaxy-ops/pkg/vars"
)

// LoadSpec reads a system tree at root: sys-def.yml, mods.yml,
// vars.yml (spec.md §6's <system-name>/ layout).
func LoadSpec(root string) (*Spec, error) {
	s := NewSpec(filepath.Base(root))
	s.LocalPath = root

	defPath := filepath.Join(root, "sys-def.yml")
	if conf.Exists(defPath) {
		if err := conf.FromConf(defPath, &s.Definition); err != nil {
			return nil, err
		}
	} else {
		s.Definition.Name = filepath.Base(root)
	}

	modsPath := filepath.Join(root, "mods.yml")
	if conf.Exists(modsPath) {
		if err := conf.FromConf(modsPath, &s.Refs); err != nil {
			return nil, err
		}
	}
	for _, ref := range s.Refs {
		ref.LocalPath = filepath.Join(s.modsDir(), ref.Name)
	}

	varsPath := filepath.Join(root, "vars.yml")
	coll := vars.NewCollection()
	if conf.Exists(varsPath) {
		if err := conf.FromConf(varsPath, coll); err != nil {
			return nil, err
		}
	}
	s.Vars = coll

	return s, nil
}

// SaveSpec persists s back under root, mirroring LoadSpec's layout.
func SaveSpec(root string, s *Spec) error {
	if err := conf.SaveConf(filepath.Join(root, "sys-def.yml"), s.Definition); err != nil {
		return err
	}
	if err := conf.SaveConf(filepath.Join(root, "mods.yml"), s.Refs); err != nil {
		return err
	}
	if s.Vars != nil && len(s.Vars.Definitions()) > 0 {
		if err := conf.SaveConf(filepath.Join(root, "vars.yml"), s.Vars); err != nil {
			return err
		}
	}
	return nil
}

// MustLoad wraps LoadSpec, converting a missing sys-def.yml into a
// resource-missing error with the root path attached, for callers that
// need a system to already exist (unlike a module's LoadSpec, a system
// tree without any config file is treated as not-yet-created).
func MustLoad(root string) (*Spec, error) {
	if !conf.Exists(filepath.Join(root, "sys-def.yml")) {
		return nil, galaxyerr.New(galaxyerr.KindResourceMissing, "system.load", nil, root)
	}
	return LoadSpec(root)
}
