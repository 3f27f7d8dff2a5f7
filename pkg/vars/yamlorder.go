package vars

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/galaxy-sec/galaxy-ops/pkg/galaxyerr"
)

// DictFromYAMLFile reads a flat YAML mapping (name -> scalar/list/map)
// into a Dict in the file's own key order. Decoding through
// map[string]interface{} (as conf.FromConf does) loses that order, since
// Go map iteration is randomized; value files feed both rendering and
// value/used.yml's provenance listing, so a randomized load order would
// make used.yml's line order nondeterministic across runs (spec.md §3).
func DictFromYAMLFile(path string) (*Dict, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, galaxyerr.New(galaxyerr.KindResourceMissing, "vars.dict_from_yaml", err, path)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, galaxyerr.New(galaxyerr.KindParseFailed, "vars.dict_from_yaml", err, path)
	}

	d := NewDict()
	if len(doc.Content) == 0 {
		return d, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, galaxyerr.New(galaxyerr.KindParseFailed, "vars.dict_from_yaml", nil, path)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		var raw interface{}
		if err := root.Content[i+1].Decode(&raw); err != nil {
			return nil, galaxyerr.New(galaxyerr.KindParseFailed, "vars.dict_from_yaml", err, path)
		}
		val, err := FromInterface(raw)
		if err != nil {
			return nil, err
		}
		d.Insert(key, val)
	}
	return d, nil
}
