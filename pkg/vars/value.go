// Package vars implements the typed value dictionaries used across the
// spec tree: plain value dictionaries for rendering, origin dictionaries
// that additionally track provenance, and the fixed-point environment
// expansion that resolves ${VAR} references.
package vars

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// Kind tags which alternative of Value is populated.
type Kind string

const (
	KindString Kind = "string"
	KindBool   Kind = "bool"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindList   Kind = "list"
	KindMap    Kind = "map"
)

// Value is a sum over string/bool/int/float plus the structural
// containers (list/map) needed during expansion. Only the field named
// by Kind is meaningful.
type Value struct {
	Kind Kind
	Str  string
	Bool bool
	Int  int64
	Flt  float64
	List []Value
	Map  map[string]Value
}

func String(s string) Value  { return Value{Kind: KindString, Str: s} }
func Bool(b bool) Value      { return Value{Kind: KindBool, Bool: b} }
func Int(i int64) Value      { return Value{Kind: KindInt, Int: i} }
func Float(f float64) Value  { return Value{Kind: KindFloat, Flt: f} }
func List(v []Value) Value   { return Value{Kind: KindList, List: v} }
func Map(v map[string]Value) Value { return Value{Kind: KindMap, Map: v} }

// IsString reports whether the value holds a string, the only kind
// env_eval ever rewrites.
func (v Value) IsString() bool { return v.Kind == KindString }

// Interface returns the value unwrapped to a plain Go value, for handing
// to the template engine's data context.
func (v Value) Interface() interface{} {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Flt
	case KindList:
		out := make([]interface{}, len(v.List))
		for i, e := range v.List {
			out[i] = e.Interface()
		}
		return out
	case KindMap:
		out := make(map[string]interface{}, len(v.Map))
		for k, e := range v.Map {
			out[k] = e.Interface()
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON dispatches on Kind so the on-disk representation is a
// plain JSON scalar/array/object rather than the struct's field names.
func (v Value) MarshalJSON() ([]byte, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(v.Interface())
}

// UnmarshalJSON dispatches on the JSON scalar kind it sees, preserving
// map insertion order is not possible through encoding/json's map type;
// Dict keeps order separately (see dict.go).
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &raw); err != nil {
		return err
	}
	val, err := FromInterface(raw)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

// FromInterface converts a decoded JSON/YAML scalar into a Value.
func FromInterface(raw interface{}) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return String(""), nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case float64:
		if t == float64(int64(t)) {
			return Int(int64(t)), nil
		}
		return Float(t), nil
	case int:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case []interface{}:
		list := make([]Value, len(t))
		for i, e := range t {
			ev, err := FromInterface(e)
			if err != nil {
				return Value{}, err
			}
			list[i] = ev
		}
		return List(list), nil
	case map[string]interface{}:
		m := make(map[string]Value, len(t))
		for k, e := range t {
			ev, err := FromInterface(e)
			if err != nil {
				return Value{}, err
			}
			m[k] = ev
		}
		return Map(m), nil
	default:
		return Value{}, fmt.Errorf("unsupported value kind %T", raw)
	}
}
