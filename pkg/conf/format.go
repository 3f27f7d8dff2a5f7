// Package conf gives spec entities their single-file persistence
// contract, from_conf/save_conf (FromConf/SaveConf), over a shared set of
// formats (YAML by default, with JSON/TOML/INI alternates). Entities with
// a multi-file on-disk layout are saved and loaded by their own packages
// (module.SaveSpec/LoadSpec, system.SaveSpec/LoadSpec), which call into
// this package file by file.
package conf

import (
	"fmt"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/ini.v1"
	"sigs.k8s.io/yaml"

	"github.com/galaxy-sec/galaxy-ops/pkg/galaxyerr"
)

// Format names one of the supported on-disk serializations.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatINI  Format = "ini"
)

// FormatFromExt guesses a Format from a file extension, defaulting to
// YAML when the extension is unrecognized, matching spec.md §4.3's
// "Default format is YAML."
func FormatFromExt(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	case ".ini":
		return FormatINI
	default:
		return FormatYAML
	}
}

// Marshal encodes v in the given format.
func Marshal(v interface{}, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(v, "", "  ")
	case FormatTOML:
		return toml.Marshal(v)
	case FormatINI:
		return marshalINI(v)
	default:
		return yaml.Marshal(v)
	}
}

// Unmarshal decodes data in the given format into v.
func Unmarshal(data []byte, v interface{}, format Format) error {
	switch format {
	case FormatJSON:
		return jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, v)
	case FormatTOML:
		return toml.Unmarshal(data, v)
	case FormatINI:
		return unmarshalINI(data, v)
	default:
		return yaml.Unmarshal(data, v)
	}
}

func marshalINI(v interface{}) ([]byte, error) {
	// ini.v1 works off its own File type; go through JSON as the common
	// intermediate representation so any struct with json tags works.
	raw, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(v)
	if err != nil {
		return nil, err
	}
	var flat map[string]interface{}
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("ini marshal requires an object at the top level: %w", err)
	}
	f := ini.Empty()
	section, err := f.NewSection(ini.DefaultSection)
	if err != nil {
		return nil, err
	}
	for k, val := range flat {
		if _, err := section.NewKey(k, fmt.Sprintf("%v", val)); err != nil {
			return nil, err
		}
	}
	var buf strings.Builder
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}

func unmarshalINI(data []byte, v interface{}) error {
	f, err := ini.Load(data)
	if err != nil {
		return err
	}
	flat := map[string]interface{}{}
	for _, section := range f.Sections() {
		for _, key := range section.Keys() {
			flat[key.Name()] = key.Value()
		}
	}
	raw, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(flat)
	if err != nil {
		return err
	}
	return jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(raw, v)
}

// WrapParseError reports a load error with {path, wanted, cause}
// context, per spec.md §4.3.
func WrapParseError(path string, wanted Format, cause error) error {
	return galaxyerr.New(galaxyerr.KindParseFailed, fmt.Sprintf("parse as %s", wanted), cause, path)
}
