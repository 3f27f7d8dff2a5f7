package module

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/galaxy-sec/galaxy-ops/pkg/conf"
	"github.com/galaxy-sec/galaxy-ops/pkg/depend"
	"github.com/galaxy-sec/galaxy-ops/pkg/galaxyerr"
	"github.com/galaxy-sec/galaxy-ops/pkg/vars"
)

// LoadSpec loads a module spec from root (a "<mod-name>/" directory),
// discovering every mod/<arch>-<os>-<runtime>/ target beneath it
// (spec.md §4.6's on-disk layout).
func LoadSpec(root string) (*Spec, error) {
	if err := migrateLegacyModConfig(root); err != nil {
		return nil, galaxyerr.New(galaxyerr.KindResourceConflict, "module.load", err, root)
	}
	cfg, err := loadModConfig(root, filepath.Base(root))
	if err != nil {
		return nil, err
	}
	spec := NewSpec(cfg.Name)

	modRoot := filepath.Join(root, "mod")
	entries, err := os.ReadDir(modRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return spec, nil
		}
		return nil, galaxyerr.New(galaxyerr.KindResourceMissing, "module.load", err, modRoot)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		model, err := ParseModel(entry.Name())
		if err != nil {
			continue
		}
		targetDir := filepath.Join(modRoot, entry.Name())
		ms, err := loadModelSpec(targetDir, model)
		if err != nil {
			return nil, err
		}
		spec.SetTarget(ms)
	}
	return spec, nil
}

func loadModelSpec(targetDir string, model Model) (*ModelSpec, error) {
	ms := &ModelSpec{Model: model, LocalPath: targetDir}

	artifactPath := filepath.Join(targetDir, "spec", "artifact.yml")
	if conf.Exists(artifactPath) {
		if err := conf.FromConf(artifactPath, &ms.Artifacts); err != nil {
			return nil, err
		}
	}

	confSpecPath := filepath.Join(targetDir, "spec", "conf_spec.yml")
	if conf.Exists(confSpecPath) {
		if err := conf.FromConf(confSpecPath, &ms.ConfSpec); err != nil {
			return nil, err
		}
	}

	dependsPath := filepath.Join(targetDir, "spec", "depends.yml")
	if conf.Exists(dependsPath) {
		var set depend.Set
		if err := conf.FromConf(dependsPath, &set); err != nil {
			return nil, err
		}
		ms.Dependencies = set
	}

	varsPath := filepath.Join(targetDir, "vars.yml")
	coll := vars.NewCollection()
	if conf.Exists(varsPath) {
		if err := conf.FromConf(varsPath, coll); err != nil {
			return nil, err
		}
	}
	ms.Vars = coll

	settingPath := filepath.Join(targetDir, "setting.yml")
	if conf.Exists(settingPath) {
		var s Setting
		if err := conf.FromConf(settingPath, &s); err != nil {
			return nil, err
		}
		ms.Setting = &s
	}

	workflowsDir := filepath.Join(targetDir, "workflows")
	if entries, err := os.ReadDir(workflowsDir); err == nil {
		ms.Workflows = map[string][]byte{}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			data, err := os.ReadFile(filepath.Join(workflowsDir, e.Name()))
			if err != nil {
				return nil, galaxyerr.New(galaxyerr.KindResourceMissing, "module.load", err, e.Name())
			}
			ms.Workflows[e.Name()] = data
		}
	}

	gxlPath := filepath.Join(targetDir, "_gal", "work.gxl")
	if data, err := os.ReadFile(gxlPath); err == nil {
		ms.ProjectGXL = data
	}

	return ms, nil
}

// SaveSpec persists spec back under root, one directory per target,
// mirroring LoadSpec's layout.
func SaveSpec(root string, spec *Spec) error {
	if err := conf.SaveConf(filepath.Join(root, modConfigName), ModuleConfig{Name: spec.Name}); err != nil {
		return err
	}
	for _, key := range sortedKeys(spec.Targets) {
		ms := spec.Targets[key]
		targetDir := filepath.Join(root, "mod", key)
		if err := saveModelSpec(targetDir, ms); err != nil {
			return err
		}
	}
	gitignore := filepath.Join(root, ".gitignore")
	if !conf.Exists(gitignore) {
		_ = os.WriteFile(gitignore, []byte("local/\nvalue/used.*\n"), 0o644)
	}
	return nil
}

func saveModelSpec(targetDir string, ms *ModelSpec) error {
	if len(ms.Artifacts) > 0 {
		if err := conf.SaveConf(filepath.Join(targetDir, "spec", "artifact.yml"), ms.Artifacts); err != nil {
			return err
		}
	}
	if len(ms.ConfSpec) > 0 {
		if err := conf.SaveConf(filepath.Join(targetDir, "spec", "conf_spec.yml"), ms.ConfSpec); err != nil {
			return err
		}
	}
	if len(ms.Dependencies.Dependencies) > 0 {
		if err := conf.SaveConf(filepath.Join(targetDir, "spec", "depends.yml"), ms.Dependencies); err != nil {
			return err
		}
	}
	if ms.Vars != nil && len(ms.Vars.Definitions()) > 0 {
		if err := conf.SaveConf(filepath.Join(targetDir, "vars.yml"), ms.Vars); err != nil {
			return err
		}
	}
	if ms.Setting != nil {
		if err := conf.SaveConf(filepath.Join(targetDir, "setting.yml"), ms.Setting); err != nil {
			return err
		}
	}
	for name, data := range ms.Workflows {
		path := filepath.Join(targetDir, "workflows", name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
	}
	if len(ms.ProjectGXL) > 0 {
		path := filepath.Join(targetDir, "_gal", "work.gxl")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, ms.ProjectGXL, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(m map[string]*ModelSpec) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
