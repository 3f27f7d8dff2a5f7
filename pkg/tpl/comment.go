package tpl

import "strings"

// commentPrefixes maps a file extension to its line-comment marker, so
// the engine can escape whole-line comments before rendering and
// restore them verbatim afterward (spec.md §4.5.3). Extensions not
// listed are rendered with no comment escaping.
var commentPrefixes = map[string]string{
	".yml":  "#",
	".yaml": "#",
	".sh":   "#",
	".bash": "#",
	".conf": "#",
	".toml": "#",
	".ini":  ";",
	".gitignore": "#",
}

func commentPrefixFor(ext string) (string, bool) {
	p, ok := commentPrefixes[strings.ToLower(ext)]
	return p, ok
}

// stripComments replaces every whole-line comment (a line whose
// trimmed, substantive payload is a comment) with an empty line, and
// returns the stripped text alongside a side-table of the original
// lines it removed, keyed by line index. splice (below) reverses this
// after render.
func stripComments(src, prefix string) (stripped string, original map[int]string) {
	if prefix == "" {
		return src, nil
	}
	lines := strings.Split(src, "\n")
	original = map[int]string{}
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), prefix) {
			original[i] = line
			lines[i] = ""
		}
	}
	if len(original) == 0 {
		return src, nil
	}
	return strings.Join(lines, "\n"), original
}

// splice reinserts the original comment lines recorded by stripComments
// into rendered, by line index. When render changed the line count
// (e.g. a section block expanded), indices beyond the rendered text's
// length are appended at the end rather than dropped.
func splice(rendered string, original map[int]string) string {
	if len(original) == 0 {
		return rendered
	}
	lines := strings.Split(rendered, "\n")
	for i, line := range original {
		if i < len(lines) {
			lines[i] = line
		} else {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
