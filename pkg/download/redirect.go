package download

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-zglob"
	"sigs.k8s.io/yaml"
)

// Rule is a single redirect entry: addresses matching Match (a literal
// prefix or a glob) are rewritten to Replace, with optional credentials
// substituted in.
type Rule struct {
	Match       string       `json:"match"`
	Replace     string       `json:"replace"`
	Credentials *Credentials `json:"credentials,omitempty"`
}

// Table is the ordered rewrite table loaded from ~/.galaxy/redirect.yml.
// Rules apply left-to-right, first match wins, and rewrites compose
// only once: the output of a match is never re-evaluated against the
// table (spec.md §4.1).
type Table struct {
	rules []Rule
}

// LoadRedirectTable reads the redirect config at path. A missing file is
// not an error: it simply yields an empty table, matching the "(if
// present)" language in spec.md §4.1.
func LoadRedirectTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Table{}, nil
		}
		return nil, err
	}
	var rules []Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, err
	}
	return &Table{rules: rules}, nil
}

// DefaultRedirectPath returns ~/.galaxy/redirect.yml.
func DefaultRedirectPath(home string) string {
	return filepath.Join(home, ".galaxy", "redirect.yml")
}

// Rewrite applies the first matching rule to raw, returning the
// rewritten address string and credentials (nil if the rule carried
// none, or if no rule matched at all). A prefix match swaps the matched
// prefix for Replace; a glob match replaces the whole address.
func (t *Table) Rewrite(raw string) (string, *Credentials) {
	if t == nil {
		return raw, nil
	}
	for _, rule := range t.rules {
		if matches(rule.Match, raw) {
			if strings.HasPrefix(raw, rule.Match) {
				return strings.Replace(raw, rule.Match, rule.Replace, 1), rule.Credentials
			}
			return rule.Replace, rule.Credentials
		}
	}
	return raw, nil
}

func matches(pattern, raw string) bool {
	if strings.HasPrefix(raw, pattern) {
		return true
	}
	ok, err := zglob.Match(pattern, raw)
	return err == nil && ok
}
