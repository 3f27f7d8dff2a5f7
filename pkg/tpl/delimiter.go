package tpl

import "strings"

const (
	nativeOpen  = "{{"
	nativeClose = "}}"
	// placeholder protects literal {{ }} that are not this file's
	// template syntax (e.g. a Helm chart's own {{ }} tags) from being
	// interpreted by the mustache render pass when a module remaps its
	// own delimiters to something else, like [[ ]] (spec.md §4.5.2,
	// end-to-end scenario 5).
	placeholderOpen  = "\x00GALAXY_OPEN\x00"
	placeholderClose = "\x00GALAXY_CLOSE\x00"
)

// Delimiters names the origin-open/origin-close pair a module's setting
// can declare when its source tree isn't native mustache (e.g. Helm
// charts, which already use {{ }} for their own purposes).
type Delimiters struct {
	Open  string
	Close string
}

// IsNative reports whether d is the engine's native {{ }} delimiter,
// in which case no remapping is needed.
func (d Delimiters) IsNative() bool {
	return (d.Open == "" || d.Open == nativeOpen) && (d.Close == "" || d.Close == nativeClose)
}

// remapIn protects literal native delimiters, then rewrites the origin
// delimiters to the engine's native form so mustache can process them
// as real tags.
func remapIn(src string, d Delimiters) string {
	if d.IsNative() {
		return src
	}
	out := strings.ReplaceAll(src, nativeOpen, placeholderOpen)
	out = strings.ReplaceAll(out, nativeClose, placeholderClose)
	out = strings.ReplaceAll(out, d.Open, nativeOpen)
	out = strings.ReplaceAll(out, d.Close, nativeClose)
	return out
}

// remapOut restores the protected literal delimiters after render.
func remapOut(rendered string, d Delimiters) string {
	if d.IsNative() {
		return rendered
	}
	out := strings.ReplaceAll(rendered, placeholderOpen, nativeOpen)
	out = strings.ReplaceAll(out, placeholderClose, nativeClose)
	return out
}
