package deps

import (
	"regexp"
	"slices"
	"strings"

	"github.com/matzehuels/trustscore/pkg/dag"
)

// ProjectRoot is the virtual node every manifest graph hangs from.
const ProjectRoot = "__project__"

// Manifest is one parsed dependency file.
type Manifest struct {
	Path               string   `json:"path"`
	Type               string   `json:"type"`
	RootPackage        string   `json:"root_package,omitempty"`
	Direct             []string `json:"direct"`
	Edges              []Edge   `json:"edges,omitempty"`
	IncludesTransitive bool     `json:"includes_transitive"`
}

// Edge is a package-to-package dependency found in a lock file.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph builds a dependency graph for the manifest rooted at [ProjectRoot].
func (m *Manifest) Graph() *dag.Graph {
	return Merge([]*Manifest{m})
}

// Merge combines several manifests into one graph. Direct dependencies of
// every manifest become children of [ProjectRoot]; lock-file edges are
// added between packages.
func Merge(manifests []*Manifest) *dag.Graph {
	g := dag.New()
	g.Add(ProjectRoot, dag.KindRoot, "")
	for _, m := range manifests {
		if m == nil {
			continue
		}
		for _, name := range m.Direct {
			g.Add(name, dag.KindPackage, m.Type)
			_ = g.Link(ProjectRoot, name)
		}
		for _, e := range m.Edges {
			g.Add(e.From, dag.KindPackage, m.Type)
			g.Add(e.To, dag.KindPackage, m.Type)
			_ = g.Link(e.From, e.To)
		}
	}
	return g
}

// Normalize converts a package name to its canonical form.
// Applies lowercase and replaces underscores and dots with hyphens,
// following PEP 503 normalization used by PyPI.
func Normalize(name string) string {
	return normalizer.Replace(strings.ToLower(strings.TrimSpace(name)))
}

var normalizer = strings.NewReplacer("_", "-", ".", "-")

var depNameRE = regexp.MustCompile(`^([a-zA-Z0-9@][-a-zA-Z0-9._/]*)`)

// depName extracts the leading package name from a requirement specifier
// such as "torch>=2.0; python_version>'3.8'".
func depName(spec string) string {
	if m := depNameRE.FindStringSubmatch(strings.TrimSpace(spec)); len(m) > 1 {
		return m[1]
	}
	return ""
}

// unique appends name to list if it is not empty and not yet present.
func unique(list []string, name string) []string {
	if name == "" || slices.Contains(list, name) {
		return list
	}
	return append(list, name)
}
