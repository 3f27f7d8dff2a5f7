package module

import (
	"path/filepath"

	"github.com/galaxy-sec/galaxy-ops/pkg/vars"
)

// WriteExample scaffolds a minimal module spec at root: one target
// (x86-ubt22-host), a couple of sample var definitions, and an empty
// workflow stub, so `galaxy-mod new` has something to localize against
// instead of an empty mod/ tree.
func WriteExample(root, name string) error {
	spec := NewSpec(name)
	model := Model{Arch: ArchX86, OS: OSUbt22, Runtime: RuntimeHost}

	defs := vars.NewCollection(
		vars.Definition{Name: "port", Default: vars.Int(8080)},
		vars.Definition{Name: "log_level", Default: vars.String("info")},
	)

	ms := &ModelSpec{
		Model:      model,
		LocalPath:  filepath.Join(root, "mod", model.String()),
		Artifacts:  []Artifact{{Name: name, Kind: "binary", Path: "bin/" + name}},
		Vars:       defs,
		Workflows:  map[string][]byte{"deploy.gxl": []byte("# workflow stub\n")},
		ProjectGXL: []byte("# work.gxl stub\n"),
	}
	spec.SetTarget(ms)
	return SaveSpec(root, spec)
}
