package vars

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// Constraint limits the values a Definition will accept; nil means
// unconstrained.
type Constraint struct {
	// Enum, when non-empty, is the closed set of allowed string values.
	Enum []string `json:"enum,omitempty"`
}

func (c *Constraint) allows(v Value) bool {
	if c == nil || len(c.Enum) == 0 {
		return true
	}
	for _, e := range c.Enum {
		if v.IsString() && v.Str == e {
			return true
		}
	}
	return false
}

// Definition is {name, default-value, optional constraint}: a single
// declared slot in a spec's value surface.
type Definition struct {
	Name       string      `json:"name"`
	Default    Value       `json:"default"`
	Constraint *Constraint `json:"constraint,omitempty"`
}

// Validate reports an error if v violates the definition's constraint.
func (def Definition) Validate(v Value) error {
	if !def.Constraint.allows(v) {
		return fmt.Errorf("value %v for %q violates constraint %v", v.Interface(), def.Name, def.Constraint.Enum)
	}
	return nil
}

// Collection is an ordered set of Definitions; it defines the default
// layer and declared shape of a spec's value surface.
type Collection struct {
	defs []Definition
}

// NewCollection builds a Collection from the given definitions, in
// order.
func NewCollection(defs ...Definition) *Collection {
	return &Collection{defs: defs}
}

// Definitions returns the declared definitions in order.
func (c *Collection) Definitions() []Definition {
	if c == nil {
		return nil
	}
	return c.defs
}

// Add appends a definition to the collection.
func (c *Collection) Add(def Definition) {
	c.defs = append(c.defs, def)
}

// MarshalJSON serializes the collection as a plain ordered array of
// Definitions, matching vars.yml's on-disk shape.
func (c *Collection) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(c.defs)
}

// UnmarshalJSON decodes a plain array of Definitions into the
// collection, preserving declaration order.
func (c *Collection) UnmarshalJSON(data []byte) error {
	var defs []Definition
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &defs); err != nil {
		return err
	}
	c.defs = defs
	return nil
}

// DefaultDict renders the collection's default values into a plain Dict,
// in declaration order. This is the "mod-default" layer in the layered
// merge (see module.Localize).
func (c *Collection) DefaultDict() *Dict {
	d := NewDict()
	for _, def := range c.Definitions() {
		d.Insert(def.Name, def.Default)
	}
	return d
}
