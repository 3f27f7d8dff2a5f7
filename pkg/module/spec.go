package module

import (
	"github.com/galaxy-sec/galaxy-ops/pkg/depend"
	"github.com/galaxy-sec/galaxy-ops/pkg/tpl"
	"github.com/galaxy-sec/galaxy-ops/pkg/vars"
)

// Artifact is one deployable output a target produces; its shape is
// deliberately thin since the spec treats artifact contents as opaque
// payload the template engine renders, not something the core
// interprets.
type Artifact struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Path string `json:"path"`
}

// Setting is the optional per-target localize configuration: a
// delimiter remap (for non-mustache inputs like Helm charts) and
// whether a per-module user value file should be honored.
type Setting struct {
	OriginOpen      string `json:"origin_open,omitempty"`
	OriginClose     string `json:"origin_close,omitempty"`
	UseDefaultValue bool   `json:"use_default_value,omitempty"`
}

// Delimiters returns the tpl.Delimiters this setting declares, or the
// native {{ }} pair if unset.
func (s *Setting) Delimiters() tpl.Delimiters {
	if s == nil {
		return tpl.Delimiters{}
	}
	return tpl.Delimiters{Open: s.OriginOpen, Close: s.OriginClose}
}

// ModelSpec is the per-target specification: {model, artifacts,
// workflows (opaque text), vars, optional setting, dependency-set,
// local-path?} from spec.md §3.
type ModelSpec struct {
	Model        Model
	Artifacts    []Artifact
	Workflows    map[string][]byte // filename -> opaque .gxl bytes
	ProjectGXL   []byte            // _gal/work.gxl, opaque
	Vars         *vars.Collection
	Setting      *Setting
	Dependencies depend.Set
	ConfSpec     map[string]interface{} // free-form additional spec data (spec/conf_spec.yml)
	LocalPath    string                 // set by the owning loader after load; never serialized
}

// Spec is a named module and its per-target specs, keyed by the
// target's "<arch>-<os>-<runtime>" string (spec.md §3 Module spec).
type Spec struct {
	Name    string
	Targets map[string]*ModelSpec
}

// NewSpec returns an empty Spec for name.
func NewSpec(name string) *Spec {
	return &Spec{Name: name, Targets: map[string]*ModelSpec{}}
}

// Target returns the ModelSpec for model, and whether it was present.
func (s *Spec) Target(model Model) (*ModelSpec, bool) {
	t, ok := s.Targets[model.String()]
	return t, ok
}

// SetTarget registers a ModelSpec under its own Model key.
func (s *Spec) SetTarget(ms *ModelSpec) {
	if s.Targets == nil {
		s.Targets = map[string]*ModelSpec{}
	}
	s.Targets[ms.Model.String()] = ms
}
