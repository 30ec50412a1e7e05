package questions

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type bankFile struct {
	Roles map[string][]Question `yaml:"roles"`
}

// LoadYAML reads a catalogue of the form
//
//	roles:
//	  backend developer:
//	    - id: 1
//	      text: ...
//	      expected_points: [...]
//	      time_limit_seconds: 240
func LoadYAML(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank %s: %w", path, err)
	}
	return ParseYAML(data)
}

func ParseYAML(data []byte) (Catalog, error) {
	var f bankFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}

	out := Catalog{}
	for role, qs := range f.Roles {
		for i, q := range qs {
			if q.Text == "" {
				return nil, fmt.Errorf("question bank %q: question %d has no text", role, i+1)
			}
			if q.TimeLimitSeconds <= 0 {
				return nil, fmt.Errorf("question bank %q: question %d needs a positive time_limit_seconds", role, i+1)
			}
		}
		out[NormalizeRole(role)] = qs
	}
	return out, nil
}
