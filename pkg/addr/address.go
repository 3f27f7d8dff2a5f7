// Package addr implements the Address tagged union — Git, Http, or
// Local — and its discriminator-by-field-shape decoder, matching the
// untagged serde enum the original Rust implementation used (see
// original_source/src/addr/types.rs).
package addr

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// Kind discriminates which variant of Address is populated.
type Kind string

const (
	KindGit   Kind = "git"
	KindHTTP  Kind = "http"
	KindLocal Kind = "local"
)

// Git carries a repository URL with an optional ref selector and
// subpath. Invariant: exactly one of Tag/Branch/Rev is honored, with
// precedence Tag > Branch > Rev (spec.md §3, §9 Open Questions).
type Git struct {
	Repo    string `json:"repo"`
	Tag     string `json:"tag,omitempty"`
	Branch  string `json:"branch,omitempty"`
	Rev     string `json:"rev,omitempty"`
	Subpath string `json:"path,omitempty"`
}

// Http carries a URL and optional Basic auth credentials.
type Http struct {
	URL      string `json:"url"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// Local carries a filesystem path.
type Local struct {
	Path string `json:"path"`
}

// Address is the tagged union {Git, Http, Local}; exactly one of the
// pointer fields is non-nil once decoded.
type Address struct {
	Kind  Kind
	Git   *Git
	Http  *Http
	Local *Local
}

// NewGit, NewHTTP, and NewLocal construct an Address of the named kind.
func NewGit(g Git) Address   { return Address{Kind: KindGit, Git: &g} }
func NewHTTP(h Http) Address { return Address{Kind: KindHTTP, Http: &h} }
func NewLocal(l Local) Address { return Address{Kind: KindLocal, Local: &l} }

// LastPathSegment returns the final path-ish segment of the address,
// used both as the cache slot name (Git) and as the default placement
// name (Http/Local) when no rename is given.
func (a Address) LastPathSegment() string {
	switch a.Kind {
	case KindGit:
		return lastSegment(a.Git.Repo)
	case KindHTTP:
		return lastSegment(a.Http.URL)
	case KindLocal:
		return lastSegment(a.Local.Path)
	default:
		return ""
	}
}

func lastSegment(s string) string {
	s = trimSuffixSlash(s)
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return s[i+1:]
		}
	}
	return s
}

func trimSuffixSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

// addressShape is the raw decode target: presence of a field decides
// which variant this is, mirroring the original's discriminator-by-
// field decoder and spec.md §6's documented precedence (git > http >
// local when multiple signatures are satisfied).
type addressShape struct {
	Repo     *string `json:"repo"`
	Tag      *string `json:"tag"`
	Branch   *string `json:"branch"`
	Rev      *string `json:"rev"`
	URL      *string `json:"url"`
	Username *string `json:"username"`
	Password *string `json:"password"`
	Path     *string `json:"path"`
}

// UnmarshalJSON dispatches on which field signature is satisfied:
// "repo" present -> Git, else "url" present -> Http, else "path" -> Local.
func (a *Address) UnmarshalJSON(data []byte) error {
	var shape addressShape
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &shape); err != nil {
		return err
	}
	switch {
	case shape.Repo != nil:
		g := Git{Repo: *shape.Repo}
		if shape.Tag != nil {
			g.Tag = *shape.Tag
		}
		if shape.Branch != nil {
			g.Branch = *shape.Branch
		}
		if shape.Rev != nil {
			g.Rev = *shape.Rev
		}
		if shape.Path != nil {
			g.Subpath = *shape.Path
		}
		*a = NewGit(g)
	case shape.URL != nil:
		h := Http{URL: *shape.URL}
		if shape.Username != nil {
			h.Username = *shape.Username
		}
		if shape.Password != nil {
			h.Password = *shape.Password
		}
		*a = NewHTTP(h)
	case shape.Path != nil:
		*a = NewLocal(Local{Path: *shape.Path})
	default:
		return fmt.Errorf("address has none of repo/url/path set")
	}
	return nil
}

// MarshalJSON serializes the populated variant's fields directly,
// producing the same untagged shape UnmarshalJSON expects.
func (a Address) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case KindGit:
		return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(a.Git)
	case KindHTTP:
		return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(a.Http)
	case KindLocal:
		return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(a.Local)
	default:
		return nil, fmt.Errorf("address has no populated variant")
	}
}

// RefPrecedence returns the ref string to check out and which selector
// supplied it, applying tag > branch > rev.
func (g Git) RefPrecedence() (ref string, selector string) {
	if g.Tag != "" {
		return g.Tag, "tag"
	}
	if g.Branch != "" {
		return g.Branch, "branch"
	}
	if g.Rev != "" {
		return g.Rev, "rev"
	}
	return "", ""
}
