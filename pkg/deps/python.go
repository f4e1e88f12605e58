package deps

import (
	"bufio"
	"bytes"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// Requirements parses pip requirements files.
type Requirements struct{}

func (r *Requirements) Type() string { return "requirements.txt" }

func (r *Requirements) Supports(name string) bool {
	return name == "requirements.txt" ||
		(strings.HasPrefix(name, "requirements") && strings.HasSuffix(name, ".txt"))
}

func (r *Requirements) Parse(path string, data []byte) (*Manifest, error) {
	var result []string

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if i := strings.Index(line, " #"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" || line[0] == '#' || line[0] == '-' {
			continue
		}
		if strings.Contains(line, "://") || strings.HasPrefix(line, "git+") {
			continue
		}
		result = unique(result, Normalize(depName(line)))
	}

	return &Manifest{Path: path, Type: r.Type(), Direct: result}, scanner.Err()
}

// Pyproject parses PEP 621 and Poetry sections of pyproject.toml.
type Pyproject struct{}

func (p *Pyproject) Type() string              { return "pyproject.toml" }
func (p *Pyproject) Supports(name string) bool { return name == "pyproject.toml" }

func (p *Pyproject) Parse(path string, data []byte) (*Manifest, error) {
	var doc struct {
		Project struct {
			Name                 string              `toml:"name"`
			Dependencies         []string            `toml:"dependencies"`
			OptionalDependencies map[string][]string `toml:"optional-dependencies"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				Name         string         `toml:"name"`
				Dependencies map[string]any `toml:"dependencies"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	m := &Manifest{Path: path, Type: p.Type(), RootPackage: doc.Project.Name}
	for _, spec := range doc.Project.Dependencies {
		m.Direct = unique(m.Direct, Normalize(depName(spec)))
	}
	for _, group := range slices.Sorted(maps.Keys(doc.Project.OptionalDependencies)) {
		for _, spec := range doc.Project.OptionalDependencies[group] {
			m.Direct = unique(m.Direct, Normalize(depName(spec)))
		}
	}
	for _, name := range slices.Sorted(maps.Keys(doc.Tool.Poetry.Dependencies)) {
		if name != "python" {
			m.Direct = unique(m.Direct, Normalize(name))
		}
	}
	if m.RootPackage == "" {
		m.RootPackage = doc.Tool.Poetry.Name
	}
	return m, nil
}

// PoetryLock parses poetry.lock files. It provides a full transitive closure
// of the dependency graph without needing to contact a registry.
type PoetryLock struct{}

func (p *PoetryLock) Type() string              { return "poetry.lock" }
func (p *PoetryLock) Supports(name string) bool { return name == "poetry.lock" }

type lockFile struct {
	Packages []lockPackage `toml:"package"`
}

type lockPackage struct {
	Name         string         `toml:"name"`
	Version      string         `toml:"version"`
	Dependencies map[string]any `toml:"dependencies"`
}

func (p *PoetryLock) Parse(path string, data []byte) (*Manifest, error) {
	var lock lockFile
	if err := toml.Unmarshal(data, &lock); err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(lock.Packages))
	for _, pkg := range lock.Packages {
		known[Normalize(pkg.Name)] = true
	}

	m := &Manifest{Path: path, Type: p.Type(), IncludesTransitive: true}
	incoming := make(map[string]bool)
	for _, pkg := range lock.Packages {
		from := Normalize(pkg.Name)
		for _, dep := range slices.Sorted(maps.Keys(pkg.Dependencies)) {
			to := Normalize(dep)
			if known[to] && to != from {
				m.Edges = append(m.Edges, Edge{From: from, To: to})
				incoming[to] = true
			}
		}
	}
	for _, pkg := range lock.Packages {
		if name := Normalize(pkg.Name); !incoming[name] {
			m.Direct = unique(m.Direct, name)
		}
	}
	return m, nil
}

// SetupPy extracts install_requires from setup.py without executing it.
type SetupPy struct{}

func (s *SetupPy) Type() string              { return "setup.py" }
func (s *SetupPy) Supports(name string) bool { return name == "setup.py" }

var (
	installRequiresRE = regexp.MustCompile(`(?s)install_requires\s*=\s*\[(.*?)\]`)
	quotedRE          = regexp.MustCompile(`["']([^"']+)["']`)
	setupNameRE       = regexp.MustCompile(`\bname\s*=\s*["']([^"']+)["']`)
)

func (s *SetupPy) Parse(path string, data []byte) (*Manifest, error) {
	m := &Manifest{Path: path, Type: s.Type()}
	if nm := setupNameRE.FindSubmatch(data); nm != nil {
		m.RootPackage = string(nm[1])
	}
	block := installRequiresRE.FindSubmatch(data)
	if block == nil {
		return m, nil
	}
	for _, q := range quotedRE.FindAllSubmatch(block[1], -1) {
		m.Direct = unique(m.Direct, Normalize(depName(string(q[1]))))
	}
	return m, nil
}
