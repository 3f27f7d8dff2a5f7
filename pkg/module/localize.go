package module

import (
	"path/filepath"

	"github.com/galaxy-sec/galaxy-ops/pkg/conf"
	"github.com/galaxy-sec/galaxy-ops/pkg/tpl"
	"github.com/galaxy-sec/galaxy-ops/pkg/vars"
)

// LocalizeOptions carries the per-run knobs that reach localize from the
// project/system layers above (spec.md §4.6).
type LocalizeOptions struct {
	// Global is the top "global" dict layer: project/system-supplied
	// values that win over anything a module declares for itself.
	Global *vars.Dict
}

// Localize assembles the layered value dict for one target, renders
// spec/ into local/ through the template engine, and writes
// value/used.yml and value/used.json under the target's own value/
// directory. It implements spec.md §4.6's localize(value-path,
// options) operation together with the global ≻ mod-cust ≻
// mod-default merge order from §4.2; the fixed filesystem layout
// (spec.md §6) places value/ at mod/<target>/value regardless of
// whether the target is standalone or reached through a system ref.
func (ms *ModelSpec) Localize(opts LocalizeOptions) error {
	valueDir := filepath.Join(ms.LocalPath, "value")
	specDir := filepath.Join(ms.LocalPath, "spec")
	localDir := filepath.Join(ms.LocalPath, "local")

	sampleYml := filepath.Join(valueDir, "sample.yml")
	userYml := filepath.Join(valueDir, "user.yml")
	usedYml := filepath.Join(valueDir, "used.yml")
	usedJSON := filepath.Join(valueDir, "used.json")

	if !conf.Exists(sampleYml) && !conf.Exists(userYml) {
		if err := conf.SaveConf(sampleYml, ms.Vars.DefaultDict().ToMap()); err != nil {
			return err
		}
	}

	origin := vars.NewOriginDict()
	origin.Merge(opts.Global, vars.OriginGlobal)

	useDefaultOnly := ms.Setting != nil && ms.Setting.UseDefaultValue
	if !useDefaultOnly && conf.Exists(userYml) {
		userDict, err := loadValueDict(userYml)
		if err != nil {
			return err
		}
		origin.Merge(userDict, vars.OriginModCust)
	}
	origin.Merge(ms.Vars.DefaultDict(), vars.OriginModDefault)

	// The accumulated dict can itself carry ${VAR} references across
	// layers (e.g. a mod-default MOD_SPACE built from a global PRJ_SPACE
	// and a mod-default SVR_NAME), so it must be env-evaluated as a whole
	// before anything renders or gets written out, not just the global
	// layer on its own (spec.md §4.2, §8 scenario 3).
	rawUsed := origin.ExportValue()
	used, err := rawUsed.EnvEval(rawUsed)
	if err != nil {
		return err
	}

	engine := tpl.New()
	engine.Delim = ms.Setting.Delimiters()
	if err := engine.RenderTree(specDir, localDir, used.ToMap()); err != nil {
		return err
	}

	entries := origin.UsedEntries()
	for i := range entries {
		if v, ok := used.Get(entries[i].Name); ok {
			entries[i].Value = v
		}
	}
	if err := conf.SaveConf(usedYml, entries); err != nil {
		return err
	}
	if err := conf.SaveConf(usedJSON, used.ToMap()); err != nil {
		return err
	}
	return nil
}

// loadValueDict reads a flat value file (sample.yml/user.yml shape:
// name -> scalar/list/map) into a Dict, in the file's own key order.
func loadValueDict(path string) (*vars.Dict, error) {
	return vars.DictFromYAMLFile(path)
}
