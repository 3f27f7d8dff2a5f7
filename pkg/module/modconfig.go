package module

import (
	"os"
	"path/filepath"

	"github.com/galaxy-sec/galaxy-ops/pkg/conf"
)

// legacyModConfigNames are prior on-disk names for a module's own
// project-level config file, oldest first. Both a bare v1 shape
// (mod-prj.yml) and a later v2 shape (mod-prj.v2.yml) were used before
// settling on mod.yml; LoadSpec migrates either to the current name
// and writes only the current form back out (spec.md §9).
var legacyModConfigNames = []string{"mod-prj.yml", "mod-prj.v2.yml"}

const modConfigName = "mod.yml"

// ModuleConfig is the thin module-level project file: just the
// declared name, since everything else lives under mod/<target>/.
type ModuleConfig struct {
	Name string `json:"name"`
}

// migrateLegacyModConfig renames whichever legacy mod-prj filename is
// present at root to mod.yml, leaving the content untouched. It is a
// no-op if neither legacy name nor the current one exists.
func migrateLegacyModConfig(root string) error {
	current := filepath.Join(root, modConfigName)
	if conf.Exists(current) {
		return nil
	}
	for _, legacy := range legacyModConfigNames {
		path := filepath.Join(root, legacy)
		if conf.Exists(path) {
			return os.Rename(path, current)
		}
	}
	return nil
}

// loadModConfig reads mod.yml if present, defaulting Name to dirName.
func loadModConfig(root, dirName string) (ModuleConfig, error) {
	cfg := ModuleConfig{Name: dirName}
	path := filepath.Join(root, modConfigName)
	if !conf.Exists(path) {
		return cfg, nil
	}
	if err := conf.FromConf(path, &cfg); err != nil {
		return ModuleConfig{}, err
	}
	if cfg.Name == "" {
		cfg.Name = dirName
	}
	return cfg, nil
}
