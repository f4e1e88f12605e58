package deps

import (
	"bufio"
	"bytes"
	"strings"
)

// GoMod parses go.mod files. Indirect requirements are skipped.
type GoMod struct{}

func (p *GoMod) Type() string              { return "go.mod" }
func (p *GoMod) Supports(name string) bool { return name == "go.mod" }

func (p *GoMod) Parse(path string, data []byte) (*Manifest, error) {
	m := &Manifest{Path: path, Type: p.Type()}
	inRequire := false

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if name, ok := strings.CutPrefix(line, "module "); ok {
			m.RootPackage = strings.TrimSpace(name)
			continue
		}
		if strings.HasPrefix(line, "require (") || line == "require(" {
			inRequire = true
			continue
		}
		if inRequire && line == ")" {
			inRequire = false
			continue
		}

		if rest, ok := strings.CutPrefix(line, "require "); ok && !strings.Contains(line, "(") {
			line = rest
		} else if !inRequire {
			continue
		}
		m.Direct = unique(m.Direct, parseRequireLine(line))
	}
	return m, scanner.Err()
}

func parseRequireLine(line string) string {
	if strings.Contains(line, "// indirect") {
		return ""
	}
	if idx := strings.Index(line, "//"); idx != -1 {
		line = line[:idx]
	}
	if fields := strings.Fields(line); len(fields) >= 1 {
		return fields[0]
	}
	return ""
}
