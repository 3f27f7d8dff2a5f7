package system

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/galaxy-sec/galaxy-ops/pkg/addr"
	"github.com/galaxy-sec/galaxy-ops/pkg/download"
	"github.com/galaxy-sec/galaxy-ops/pkg/module"
	"github.com/galaxy-sec/galaxy-ops/pkg/vars"
)

var testModel = module.Model{Arch: module.ArchX86, OS: module.OSUbt22, Runtime: module.RuntimeHost}

// buildSourceModule writes a minimal, loadable module spec at dir with one
// target and a spec/ tree worth rendering, mimicking what a fetched module
// package looks like on disk.
func buildSourceModule(t *testing.T, dir string) {
	t.Helper()
	spec := module.NewSpec("widget")
	ms := &module.ModelSpec{
		Model:     testModel,
		LocalPath: filepath.Join(dir, "mod", testModel.String()),
		Vars:      vars.NewCollection(vars.Definition{Name: "port", Default: vars.Int(8080)}),
	}
	spec.SetTarget(ms)
	if err := module.SaveSpec(dir, spec); err != nil {
		t.Fatalf("seed module.SaveSpec: %v", err)
	}
	specDir := filepath.Join(ms.LocalPath, "spec")
	if err := os.MkdirAll(specDir, 0o755); err != nil {
		t.Fatalf("mkdir spec: %v", err)
	}
	if err := os.WriteFile(filepath.Join(specDir, "config.yml"), []byte("port: {{port}}\n"), 0o644); err != nil {
		t.Fatalf("write config.yml: %v", err)
	}
}

func TestModuleReferenceUpdateLocalStagesAndPlaces(t *testing.T) {
	home := t.TempDir()
	dl, err := download.New(home)
	if err != nil {
		t.Fatalf("download.New: %v", err)
	}

	sourceDir := filepath.Join(home, "source")
	buildSourceModule(t, sourceDir)

	sysRoot := filepath.Join(home, "sys")
	ref := &ModuleReference{
		Name:    "widget",
		Address: addr.NewLocal(addr.Local{Path: sourceDir}),
		Model:   testModel,
		Enable:  true,
	}

	unit, err := ref.UpdateLocal(context.Background(), dl, filepath.Join(sysRoot, "mods"), download.Options{})
	if err != nil {
		t.Fatalf("UpdateLocal: %v", err)
	}
	wantPlaced := filepath.Join(sysRoot, "mods", "widget")
	if unit.Position != wantPlaced {
		t.Fatalf("want placed at %q, got %q", wantPlaced, unit.Position)
	}
	if ref.LocalPath != wantPlaced {
		t.Fatalf("want ref.LocalPath set to %q, got %q", wantPlaced, ref.LocalPath)
	}
	if _, err := os.Stat(filepath.Join(sysRoot, "mods", "__mod", "source")); !os.IsNotExist(err) {
		t.Fatalf("want staged entry moved out of __mod by the rename, stat err=%v", err)
	}
	if _, err := os.Stat(filepath.Join(wantPlaced, "mod", testModel.String(), "spec", "config.yml")); err != nil {
		t.Fatalf("want resolved module content present: %v", err)
	}
}

func TestModuleReferenceUpdateLocalDisabledIsNoop(t *testing.T) {
	home := t.TempDir()
	dl, err := download.New(home)
	if err != nil {
		t.Fatalf("download.New: %v", err)
	}
	ref := &ModuleReference{Name: "widget", Enable: false}
	unit, err := ref.UpdateLocal(context.Background(), dl, filepath.Join(home, "mods"), download.Options{})
	if err != nil {
		t.Fatalf("UpdateLocal: %v", err)
	}
	if unit.Position != "" {
		t.Fatalf("want no-op for a disabled ref, got %+v", unit)
	}
}

func TestModuleReferenceLocalizeRendersTarget(t *testing.T) {
	home := t.TempDir()
	dl, err := download.New(home)
	if err != nil {
		t.Fatalf("download.New: %v", err)
	}

	sourceDir := filepath.Join(home, "source")
	buildSourceModule(t, sourceDir)

	sysRoot := filepath.Join(home, "sys")
	ref := &ModuleReference{
		Name:    "widget",
		Address: addr.NewLocal(addr.Local{Path: sourceDir}),
		Model:   testModel,
		Enable:  true,
	}
	if _, err := ref.UpdateLocal(context.Background(), dl, filepath.Join(sysRoot, "mods"), download.Options{}); err != nil {
		t.Fatalf("UpdateLocal: %v", err)
	}

	global := vars.NewDict()
	global.Insert("port", vars.Int(9999))
	if err := ref.Localize(global); err != nil {
		t.Fatalf("Localize: %v", err)
	}

	rendered, err := os.ReadFile(filepath.Join(ref.LocalPath, "mod", testModel.String(), "local", "config.yml"))
	if err != nil {
		t.Fatalf("read rendered: %v", err)
	}
	if string(rendered) != "port: 9999\n" {
		t.Fatalf("want global value rendered, got %q", string(rendered))
	}
}

func TestModuleReferenceLocalizeWithoutUpdateFails(t *testing.T) {
	ref := &ModuleReference{Name: "widget", Enable: true}
	if err := ref.Localize(vars.NewDict()); err == nil {
		t.Fatal("want error localizing a ref that was never resolved")
	}
}

func TestModuleReferenceLocalizeDisabledIsNoop(t *testing.T) {
	ref := &ModuleReference{Name: "widget", Enable: false}
	if err := ref.Localize(vars.NewDict()); err != nil {
		t.Fatalf("want no-op for a disabled ref, got %v", err)
	}
}
