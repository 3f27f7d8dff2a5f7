package galaxyerr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorIsMatchesOnKindOnly(t *testing.T) {
	err := New(KindResourceMissing, "module.load", fmt.Errorf("boom"), "/a/b")

	if !errors.Is(err, Sentinel(KindResourceMissing)) {
		t.Fatal("want Is to match same kind")
	}
	if errors.Is(err, Sentinel(KindDownloadFailed)) {
		t.Fatal("want Is to reject different kind")
	}
}

func TestErrorUnwrapExposesCause(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := New(KindLogic, "op", cause)

	if !errors.Is(err, cause) {
		t.Fatal("want errors.Is to see through Unwrap to cause")
	}
}

func TestErrorStringIncludesPathsAndCause(t *testing.T) {
	err := New(KindParseFailed, "tpl.render", fmt.Errorf("bad token"), "a.yml", "b.yml")
	msg := err.Error()
	if msg == "" {
		t.Fatal("want non-empty message")
	}
	for _, want := range []string{"tpl.render", "parse-failed", "a.yml", "bad token"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("want message %q to contain %q", msg, want)
		}
	}
}

func TestIsOptionalMissing(t *testing.T) {
	err := New(KindResourceMissing, "conf.load", nil, "sample.yml")
	if !IsOptionalMissing(err) {
		t.Fatal("want resource-missing error to be optional-missing")
	}

	other := New(KindLogic, "conf.load", nil)
	if IsOptionalMissing(other) {
		t.Fatal("want logic error to not be optional-missing")
	}
}
