package deps

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"
)

// PackageJSON parses npm package.json files.
type PackageJSON struct{}

func (p *PackageJSON) Type() string              { return "package.json" }
func (p *PackageJSON) Supports(name string) bool { return strings.EqualFold(name, "package.json") }

type packageFile struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`
}

func (p *PackageJSON) Parse(path string, data []byte) (*Manifest, error) {
	var pkg packageFile
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, err
	}

	m := &Manifest{Path: path, Type: p.Type(), RootPackage: pkg.Name}
	for _, group := range []map[string]string{pkg.Dependencies, pkg.PeerDependencies, pkg.DevDependencies} {
		for _, name := range slices.Sorted(maps.Keys(group)) {
			m.Direct = unique(m.Direct, name)
		}
	}
	return m, nil
}
