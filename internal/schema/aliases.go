package schema

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// LoadAliases reads extra header alias candidates from a YAML file:
//
//	aliases:
//	  name: ["shelter name"]
//	  contact: ["helpline"]
//
// Extra candidates are appended after the built-in ones, so built-in priority
// is preserved. Keys must be canonical field names.
func LoadAliases(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "aliases: read %s", path)
	}

	var wrapper struct {
		Aliases map[string][]string `yaml:"aliases"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "aliases: parse yaml")
	}

	known := make(map[string]bool, len(aliasTable))
	for _, a := range aliasTable {
		known[a.target] = true
	}
	for target := range wrapper.Aliases {
		if !known[target] {
			return nil, eris.Errorf("aliases: unknown canonical field %q", target)
		}
	}
	return wrapper.Aliases, nil
}
