package tpl

import (
	"testing"

	"github.com/spf13/afero"
)

func newMemEngine() *Engine {
	return &Engine{Fs: afero.NewMemMapFs()}
}

func TestRenderTreeRendersAndMirrorsDirectories(t *testing.T) {
	e := newMemEngine()
	writeFile(t, e.Fs, "src/app.yml", "name: {{name}}\nport: {{port}}\n")
	writeFile(t, e.Fs, "src/nested/note.txt", "static content\n")

	if err := e.RenderTree("src", "dst", map[string]interface{}{"name": "widget", "port": 8080}); err != nil {
		t.Fatalf("RenderTree: %v", err)
	}

	assertFileContents(t, e.Fs, "dst/app.yml", "name: widget\nport: 8080\n")
	assertFileContents(t, e.Fs, "dst/nested/note.txt", "static content\n")
}

func TestRenderTreeExcludeCopiesVerbatim(t *testing.T) {
	e := newMemEngine()
	e.Exclude = []string{"*.bin"}
	writeFile(t, e.Fs, "src/asset.bin", "{{not_a_var}} raw bytes")

	if err := e.RenderTree("src", "dst", map[string]interface{}{}); err != nil {
		t.Fatalf("RenderTree: %v", err)
	}
	assertFileContents(t, e.Fs, "dst/asset.bin", "{{not_a_var}} raw bytes")
}

func TestRenderTreeIncludeLimitsRendering(t *testing.T) {
	e := newMemEngine()
	e.Include = []string{"*.yml"}
	writeFile(t, e.Fs, "src/app.yml", "v={{v}}")
	writeFile(t, e.Fs, "src/readme.md", "{{not_rendered}}")

	if err := e.RenderTree("src", "dst", map[string]interface{}{"v": "1"}); err != nil {
		t.Fatalf("RenderTree: %v", err)
	}
	assertFileContents(t, e.Fs, "dst/app.yml", "v=1")
	if exists, _ := afero.Exists(e.Fs, "dst/readme.md"); exists {
		t.Fatal("want a file matching neither include nor exclude skipped, not written")
	}
}

func TestRenderTreeMissingVariableFails(t *testing.T) {
	e := newMemEngine()
	writeFile(t, e.Fs, "src/app.yml", "name: {{missing}}")

	if err := e.RenderTree("src", "dst", map[string]interface{}{}); err == nil {
		t.Fatal("want error for a missing template variable")
	}
}

func TestRenderTreeDelimiterRemapProtectsNativeBraces(t *testing.T) {
	e := newMemEngine()
	e.Delim = Delimiters{Open: "[[", Close: "]]"}
	writeFile(t, e.Fs, "src/chart.yaml", "helm: {{ .Release.Name }}\nours: [[name]]\n")

	if err := e.RenderTree("src", "dst", map[string]interface{}{"name": "widget"}); err != nil {
		t.Fatalf("RenderTree: %v", err)
	}
	assertFileContents(t, e.Fs, "dst/chart.yaml", "helm: {{ .Release.Name }}\nours: widget\n")
}

func TestRenderTreeCommentLinesSurviveVerbatim(t *testing.T) {
	e := newMemEngine()
	writeFile(t, e.Fs, "src/app.yml", "# a comment with {{unset}}\nname: {{name}}\n")

	if err := e.RenderTree("src", "dst", map[string]interface{}{"name": "widget"}); err != nil {
		t.Fatalf("RenderTree: %v", err)
	}
	assertFileContents(t, e.Fs, "dst/app.yml", "# a comment with {{unset}}\nname: widget\n")
}

func TestRenderTreeSingleFileSource(t *testing.T) {
	e := newMemEngine()
	writeFile(t, e.Fs, "src/only.yml", "v={{v}}")

	if err := e.RenderTree("src/only.yml", "dst/only.yml", map[string]interface{}{"v": "ok"}); err != nil {
		t.Fatalf("RenderTree: %v", err)
	}
	assertFileContents(t, e.Fs, "dst/only.yml", "v=ok")
}

func TestEnsureUnderRootRejectsTraversal(t *testing.T) {
	if err := EnsureUnderRoot("/root/a", "/root/a/../../etc/passwd"); err == nil {
		t.Fatal("want traversal outside root to be rejected")
	}
	if err := EnsureUnderRoot("/root/a", "/root/a/b/c"); err != nil {
		t.Fatalf("want descendant path accepted, got %v", err)
	}
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func assertFileContents(t *testing.T, fs afero.Fs, path, want string) {
	t.Helper()
	got, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if string(got) != want {
		t.Fatalf("%s: want %q, got %q", path, want, string(got))
	}
}
