package project

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/galaxy-sec/galaxy-ops/pkg/galaxyerr"
)

func writeTestArchive(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	for name, content := range entries {
		hdr := &tar.Header{Name: name, Mode: 0o644, Size: int64(len(content))}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("write header %s: %v", name, err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatalf("write content %s: %v", name, err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar writer: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("close gzip writer: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
}

func TestImportSystemExtractsIntoNamedDir(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "pkg.tar.gz")
	writeTestArchive(t, archivePath, map[string]string{
		"sys-def.yml":       "name: platform\n",
		"mods/widget/f.txt": "content",
	})

	projectRoot := filepath.Join(dir, "project")
	if err := ImportSystem(projectRoot, archivePath, "platform"); err != nil {
		t.Fatalf("ImportSystem: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(projectRoot, "platform", "sys-def.yml"))
	if err != nil {
		t.Fatalf("read sys-def.yml: %v", err)
	}
	if string(data) != "name: platform\n" {
		t.Fatalf("want extracted content, got %q", string(data))
	}
	nested, err := os.ReadFile(filepath.Join(projectRoot, "platform", "mods", "widget", "f.txt"))
	if err != nil {
		t.Fatalf("read nested file: %v", err)
	}
	if string(nested) != "content" {
		t.Fatalf("want nested content, got %q", string(nested))
	}
}

func TestImportSystemRejectsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "evil.tar.gz")
	writeTestArchive(t, archivePath, map[string]string{
		"../../etc/passwd": "root:x:0:0\n",
	})

	projectRoot := filepath.Join(dir, "project")
	if err := ImportSystem(projectRoot, archivePath, "platform"); err == nil {
		t.Fatal("want path-traversal archive entry to be rejected")
	}
}

func TestImportSystemMissingArchiveIsResourceMissing(t *testing.T) {
	dir := t.TempDir()
	err := ImportSystem(filepath.Join(dir, "project"), filepath.Join(dir, "absent.tar.gz"), "platform")
	if err == nil {
		t.Fatal("want error for a missing archive file")
	}
	if !errors.Is(err, galaxyerr.Sentinel(galaxyerr.KindResourceMissing)) {
		t.Fatalf("want KindResourceMissing, got %v", err)
	}
}
