package download

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRedirectTableMissingFileIsEmpty(t *testing.T) {
	table, err := LoadRedirectTable(filepath.Join(t.TempDir(), "redirect.yml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, creds := table.Rewrite("https://example.com/repo.git")
	if raw != "https://example.com/repo.git" || creds != nil {
		t.Fatalf("want passthrough on empty table, got (%q, %v)", raw, creds)
	}
}

func TestRewriteFirstMatchWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "redirect.yml")
	contents := `
- match: "https://old.example.com/"
  replace: "https://new.example.com/"
- match: "https://old.example.com/special"
  replace: "https://should-not-match.example.com/"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	table, err := LoadRedirectTable(path)
	if err != nil {
		t.Fatalf("LoadRedirectTable: %v", err)
	}

	got, _ := table.Rewrite("https://old.example.com/org/repo.git")
	want := "https://new.example.com/org/repo.git"
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestRewriteWithCredentials(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "redirect.yml")
	contents := `
- match: "https://private.example.com/"
  replace: "https://mirror.example.com/"
  credentials:
    username: bot
    password: secret
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	table, err := LoadRedirectTable(path)
	if err != nil {
		t.Fatalf("LoadRedirectTable: %v", err)
	}

	got, creds := table.Rewrite("https://private.example.com/repo.git")
	if got != "https://mirror.example.com/repo.git" {
		t.Fatalf("unexpected rewrite: %q", got)
	}
	if creds == nil || creds.Username != "bot" || creds.Password != "secret" {
		t.Fatalf("want credentials carried through, got %+v", creds)
	}
}

func TestRewriteNoMatchReturnsUnchanged(t *testing.T) {
	table := &Table{rules: []Rule{{Match: "https://a.example.com/", Replace: "https://b.example.com/"}}}
	got, creds := table.Rewrite("https://c.example.com/repo.git")
	if got != "https://c.example.com/repo.git" || creds != nil {
		t.Fatalf("want unchanged passthrough, got (%q, %v)", got, creds)
	}
}
