// Package deps parses dependency manifests found in code repositories.
//
// # Overview
//
// Parsers work on file contents already fetched from a source, never on the
// local filesystem:
//
//   - Python: requirements*.txt, pyproject.toml, poetry.lock, setup.py,
//     environment.yml
//   - JavaScript: package.json
//   - Go: go.mod
//   - Rust: Cargo.toml
//   - Ruby: Gemfile
//
// Lock files carry transitive edges; other formats only list direct
// dependencies. [Merge] folds several manifests into one [dag.Graph] rooted
// at [ProjectRoot] for tree scoring.
//
// # Usage
//
//	m, err := deps.Parse("requirements.txt", data)
//	g := m.Graph()
//	depth := g.Depth(deps.ProjectRoot)
//
// [dag.Graph]: github.com/matzehuels/trustscore/pkg/dag.Graph
package deps
