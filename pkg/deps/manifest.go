package deps

import (
	"fmt"
	"path"
	"strings"
)

// Parser reads dependency information from the contents of one manifest file.
type Parser interface {
	// Type returns the manifest type identifier (e.g., "poetry.lock").
	Type() string
	// Supports reports whether this parser handles the given base filename.
	Supports(filename string) bool
	// Parse parses data, the contents of the file at path.
	Parse(path string, data []byte) (*Manifest, error)
}

// Parsers is the closed list of supported manifest formats, in preference
// order: lock files first.
var Parsers = []Parser{
	&PoetryLock{},
	&Pyproject{},
	&Requirements{},
	&SetupPy{},
	&CondaEnv{},
	&PackageJSON{},
	&GoMod{},
	&CargoToml{},
	&Gemfile{},
}

// Detect finds the parser for a repository path.
func Detect(p string) (Parser, bool) {
	name := path.Base(p)
	for _, parser := range Parsers {
		if parser.Supports(name) {
			return parser, true
		}
	}
	return nil, false
}

// Supported reports whether a repository path names a manifest file.
// Files under vendored or test directories are ignored.
func Supported(p string) bool {
	for _, dir := range []string{"node_modules/", "vendor/", "test/", "tests/", "examples/"} {
		if strings.HasPrefix(p, dir) || strings.Contains(p, "/"+dir) {
			return false
		}
	}
	_, ok := Detect(p)
	return ok
}

// Parse parses the manifest at p with the matching parser.
func Parse(p string, data []byte) (*Manifest, error) {
	parser, ok := Detect(p)
	if !ok {
		return nil, fmt.Errorf("unsupported manifest: %s", path.Base(p))
	}
	m, err := parser.Parse(p, data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", p, err)
	}
	return m, nil
}
