package metrics

import (
	"context"
	"path"
	"regexp"
	"strings"

	"github.com/matzehuels/trustscore/pkg/artifact"
	"github.com/matzehuels/trustscore/pkg/source"
)

// CLIPresence rates whether the artifact ships a command line entry point.
type CLIPresence struct{}

func (CLIPresence) Name() string                     { return NameCLIPresence }
func (CLIPresence) AppliesTo(artifact.Category) bool { return true }

var cliPaths = []string{"__main__.py", "cli.py", "main.go", "cli.js"}

func (CLIPresence) Score(_ context.Context, m *source.Metadata) (Result, error) {
	var v float64
	if anyPath(m.Files, func(p string) bool {
		base := path.Base(p)
		for _, c := range cliPaths {
			if base == c {
				return true
			}
		}
		return strings.HasPrefix(p, "cmd/") || strings.HasPrefix(p, "bin/")
	}) {
		v += 0.5
	}

	d := parseDocument(m.Readme)
	shell := d.countBlocks(func(b codeBlock) bool {
		switch b.lang {
		case "bash", "sh", "shell", "console", "zsh":
			return true
		}
		return strings.Contains(b.body, "$ ")
	})
	if shell > 0 {
		v += 0.3
	}
	if d.hasHeading("command line", "cli", "command-line") || d.mentions("--help") {
		v += 0.2
	}
	return score(v), nil
}

// EnvHygiene rates how configuration and logging are handled: documented
// environment variables and example env files count for the artifact, a
// committed .env file counts against it.
type EnvHygiene struct{}

func (EnvHygiene) Name() string                     { return NameEnvHygiene }
func (EnvHygiene) AppliesTo(artifact.Category) bool { return true }

var envVarRE = regexp.MustCompile(`(?m)\b(export\s+[A-Z][A-Z0-9_]{2,}=|\$\{?[A-Z][A-Z0-9_]{2,}\}?|os\.environ|os\.getenv|getenv\()`)

func (EnvHygiene) Score(_ context.Context, m *source.Metadata) (Result, error) {
	var v float64
	if envVarRE.MatchString(m.Readme) {
		v += 0.4
	}
	d := parseDocument(m.Readme)
	if d.hasHeading("configuration", "environment", "logging") || d.mentions("log_level", "logging level", "verbosity") {
		v += 0.3
	}
	var example, committed bool
	for _, f := range m.Files {
		switch path.Base(f.Path) {
		case ".env.example", ".env.sample", ".env.template", "env.example":
			example = true
		case ".env":
			committed = true
		}
	}
	if example {
		v += 0.3
	}
	if committed {
		v -= 0.5
	}
	return score(v), nil
}
