package deps

import (
	"bufio"
	"bytes"
	"regexp"
)

// Gemfile parses Bundler Gemfiles.
type Gemfile struct{}

func (g *Gemfile) Type() string              { return "Gemfile" }
func (g *Gemfile) Supports(name string) bool { return name == "Gemfile" }

var gemPattern = regexp.MustCompile(`^\s*gem\s+['"]([^'"]+)['"]`)

func (g *Gemfile) Parse(path string, data []byte) (*Manifest, error) {
	m := &Manifest{Path: path, Type: g.Type()}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if match := gemPattern.FindStringSubmatch(scanner.Text()); match != nil {
			m.Direct = unique(m.Direct, match[1])
		}
	}
	return m, scanner.Err()
}
