package system

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/galaxy-sec/galaxy-ops/pkg/addr"
	"github.com/galaxy-sec/galaxy-ops/pkg/galaxyerr"
	"github.com/galaxy-sec/galaxy-ops/pkg/module"
	"github.com/galaxy-sec/galaxy-ops/pkg/vars"
)

func TestSaveSpecThenLoadSpecRoundTrip(t *testing.T) {
	root := t.TempDir()
	s := NewSpec("platform")
	s.Definition.Repo = "https://example.com/platform.git"
	s.Vars = vars.NewCollection(vars.Definition{Name: "region", Default: vars.String("us-east")})
	s.AddRef(&ModuleReference{
		Name:    "widget",
		Address: addr.NewGit(addr.Git{Repo: "https://example.com/widget.git", Tag: "v1"}),
		Model:   module.Model{Arch: module.ArchX86, OS: module.OSUbt22, Runtime: module.RuntimeHost},
		Enable:  true,
	})

	if err := SaveSpec(root, s); err != nil {
		t.Fatalf("SaveSpec: %v", err)
	}

	loaded, err := LoadSpec(root)
	if err != nil {
		t.Fatalf("LoadSpec: %v", err)
	}
	if loaded.Definition.Name != "platform" || loaded.Definition.Repo != "https://example.com/platform.git" {
		t.Fatalf("want definition round-tripped, got %+v", loaded.Definition)
	}
	if len(loaded.Refs) != 1 || loaded.Refs[0].Name != "widget" {
		t.Fatalf("want one ref round-tripped, got %+v", loaded.Refs)
	}
	wantLocal := filepath.Join(root, "mods", "widget")
	if loaded.Refs[0].LocalPath != wantLocal {
		t.Fatalf("want ref local path %q, got %q", wantLocal, loaded.Refs[0].LocalPath)
	}
	if len(loaded.Vars.Definitions()) != 1 || loaded.Vars.Definitions()[0].Name != "region" {
		t.Fatalf("want vars round-tripped, got %+v", loaded.Vars.Definitions())
	}
}

func TestLoadSpecOnEmptyRootDefaultsNameFromDir(t *testing.T) {
	root := t.TempDir()
	s, err := LoadSpec(root)
	if err != nil {
		t.Fatalf("LoadSpec: %v", err)
	}
	if s.Definition.Name != filepath.Base(root) {
		t.Fatalf("want name defaulted from dir, got %q", s.Definition.Name)
	}
	if len(s.Refs) != 0 {
		t.Fatalf("want no refs, got %d", len(s.Refs))
	}
}

func TestMustLoadRejectsMissingSystem(t *testing.T) {
	root := t.TempDir()
	_, err := MustLoad(root)
	if err == nil {
		t.Fatal("want error for a root with no sys-def.yml")
	}
	if !errors.Is(err, galaxyerr.Sentinel(galaxyerr.KindResourceMissing)) {
		t.Fatalf("want KindResourceMissing, got %v", err)
	}
}

func TestMustLoadSucceedsOncePresent(t *testing.T) {
	root := t.TempDir()
	if err := SaveSpec(root, NewSpec("platform")); err != nil {
		t.Fatalf("SaveSpec: %v", err)
	}
	s, err := MustLoad(root)
	if err != nil {
		t.Fatalf("MustLoad: %v", err)
	}
	if s.Definition.Name != "platform" {
		t.Fatalf("want name platform, got %q", s.Definition.Name)
	}
}
