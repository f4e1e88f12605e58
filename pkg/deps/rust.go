package deps

import (
	"maps"
	"slices"

	"github.com/BurntSushi/toml"
)

// CargoToml parses Rust Cargo.toml manifests.
type CargoToml struct{}

func (c *CargoToml) Type() string              { return "Cargo.toml" }
func (c *CargoToml) Supports(name string) bool { return name == "Cargo.toml" }

func (c *CargoToml) Parse(path string, data []byte) (*Manifest, error) {
	var doc struct {
		Package struct {
			Name string `toml:"name"`
		} `toml:"package"`
		Dependencies      map[string]any `toml:"dependencies"`
		BuildDependencies map[string]any `toml:"build-dependencies"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	m := &Manifest{Path: path, Type: c.Type(), RootPackage: doc.Package.Name}
	for _, group := range []map[string]any{doc.Dependencies, doc.BuildDependencies} {
		for _, name := range slices.Sorted(maps.Keys(group)) {
			m.Direct = unique(m.Direct, name)
		}
	}
	return m, nil
}
