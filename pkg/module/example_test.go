package module

import "testing"

func TestWriteExampleThenLoadSpecRoundTrip(t *testing.T) {
	root := t.TempDir()
	if err := WriteExample(root, "widget"); err != nil {
		t.Fatalf("WriteExample: %v", err)
	}

	spec, err := LoadSpec(root)
	if err != nil {
		t.Fatalf("LoadSpec: %v", err)
	}
	if spec.Name != "widget" {
		t.Fatalf("want name widget, got %q", spec.Name)
	}

	ms, ok := spec.Target(Model{Arch: ArchX86, OS: OSUbt22, Runtime: RuntimeHost})
	if !ok {
		t.Fatal("want the scaffolded target present")
	}
	if len(ms.Artifacts) != 1 || ms.Artifacts[0].Name != "widget" {
		t.Fatalf("want scaffolded artifact, got %+v", ms.Artifacts)
	}
	if len(ms.Vars.Definitions()) != 2 {
		t.Fatalf("want two scaffolded var definitions, got %d", len(ms.Vars.Definitions()))
	}
}
