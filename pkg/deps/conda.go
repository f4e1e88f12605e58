package deps

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// CondaEnv parses conda environment.yml files, including the nested pip list.
type CondaEnv struct{}

func (c *CondaEnv) Type() string { return "environment.yml" }

func (c *CondaEnv) Supports(name string) bool {
	return name == "environment.yml" || name == "environment.yaml"
}

func (c *CondaEnv) Parse(path string, data []byte) (*Manifest, error) {
	var env struct {
		Name         string `yaml:"name"`
		Dependencies []any  `yaml:"dependencies"`
	}
	if err := yaml.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	m := &Manifest{Path: path, Type: c.Type(), RootPackage: env.Name}
	for _, d := range env.Dependencies {
		switch v := d.(type) {
		case string:
			// conda specs look like "numpy=1.24" or "conda-forge::numpy"
			if _, after, ok := strings.Cut(v, "::"); ok {
				v = after
			}
			if name := Normalize(depName(v)); name != "python" && name != "pip" {
				m.Direct = unique(m.Direct, name)
			}
		case map[string]any:
			pip, _ := v["pip"].([]any)
			for _, p := range pip {
				if s, ok := p.(string); ok && !strings.HasPrefix(s, "-") {
					m.Direct = unique(m.Direct, Normalize(depName(s)))
				}
			}
		}
	}
	return m, nil
}
