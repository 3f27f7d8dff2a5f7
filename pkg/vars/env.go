package vars

import (
	"os"
	"regexp"

	"github.com/galaxy-sec/galaxy-ops/pkg/galaxyerr"
)

// maxExpandPasses bounds env_eval per spec.md invariant 4: expansion
// reaches a fixed point in at most 8 iterations, or it is a parse
// failure (a ${VAR} that expands to something referencing itself).
const maxExpandPasses = 8

var varRefPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// EnvEval replaces ${NAME} tokens in every string value using env first,
// falling back to process environment variables. Missing variables are
// left as the literal token. Expansion repeats until no pass changes
// the dict, or maxExpandPasses is hit, in which case it is reported as
// a parse-failed error.
func (d *Dict) EnvEval(env *Dict) (*Dict, error) {
	out := d.Clone()
	lookup := func(name string) (string, bool) {
		if env != nil {
			if v, ok := env.Get(name); ok && v.IsString() {
				return v.Str, true
			}
		}
		return os.LookupEnv(name)
	}

	for pass := 0; pass < maxExpandPasses; pass++ {
		changed := false
		for _, k := range out.Keys() {
			v, _ := out.Get(k)
			if !v.IsString() {
				continue
			}
			expanded, didExpand := expandOnce(v.Str, lookup)
			if didExpand {
				changed = true
				out.data[k] = String(expanded)
			}
		}
		if !changed {
			return out, nil
		}
	}

	// One more pass to see if we've actually converged on the final
	// iteration (changed-on-last-pass isn't necessarily non-convergent,
	// but per spec a dict that still needs work after 8 passes fails).
	for _, k := range out.Keys() {
		v, _ := out.Get(k)
		if !v.IsString() {
			continue
		}
		if _, didExpand := expandOnce(v.Str, lookup); didExpand {
			return nil, galaxyerr.New(galaxyerr.KindParseFailed, "env_eval", nil, k)
		}
	}
	return out, nil
}

func expandOnce(s string, lookup func(string) (string, bool)) (string, bool) {
	changed := false
	result := varRefPattern.ReplaceAllStringFunc(s, func(tok string) string {
		name := varRefPattern.FindStringSubmatch(tok)[1]
		if val, ok := lookup(name); ok {
			changed = true
			return val
		}
		return tok
	})
	return result, changed
}
