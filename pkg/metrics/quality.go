package metrics

import (
	"context"
	"path"
	"strings"

	"github.com/matzehuels/trustscore/pkg/artifact"
	"github.com/matzehuels/trustscore/pkg/source"
)

// DatasetAndCode rates whether the artifact documents both the data it
// was built from and the code that produced it.
type DatasetAndCode struct{}

func (DatasetAndCode) Name() string                     { return NameDatasetAndCode }
func (DatasetAndCode) AppliesTo(artifact.Category) bool { return true }

func (DatasetAndCode) Score(_ context.Context, m *source.Metadata) (Result, error) {
	var v float64
	if len(m.DatasetLinks) > 0 || len(m.Card.Datasets) > 0 {
		v += 0.5
	}
	// A code repository is its own code.
	if m.Ref.Category == artifact.CategoryCode || len(m.CodeLinks) > 0 {
		v += 0.5
	}
	return score(v), nil
}

// DatasetQuality rates the documentation of a dataset, or for a model the
// documentation of the data it was trained on.
type DatasetQuality struct{}

func (DatasetQuality) Name() string { return NameDatasetQuality }

func (DatasetQuality) AppliesTo(c artifact.Category) bool { return c != artifact.CategoryCode }

const popularDownloads = 1000

func (DatasetQuality) Score(_ context.Context, m *source.Metadata) (Result, error) {
	d := parseDocument(m.Readme)
	if m.Ref.Category != artifact.CategoryDataset {
		var v float64
		if len(m.Card.Datasets) > 0 {
			v += 0.5
		}
		if len(m.DatasetLinks) > 0 {
			v += 0.2
		}
		if d.hasHeading("training data", "dataset", "training procedure", "data") {
			v += 0.3
		}
		return score(v), nil
	}

	var v float64
	if m.LicenseID != "" || m.LicenseText != "" {
		v += 0.2
	}
	if d.words >= 100 {
		v += 0.2
	}
	if d.hasHeading("dataset structure", "data fields", "data splits", "data instances", "schema", "format") {
		v += 0.2
	}
	if d.hasHeading("citation") || d.mentions("bibtex", "@inproceedings", "@article", "@misc") {
		v += 0.1
	}
	if len(m.Card.Languages) > 0 || len(m.Card.Tags) > 0 {
		v += 0.1
	}
	if m.Downloads >= popularDownloads || m.Likes >= 10 {
		v += 0.1
	}
	if d.hasHeading("dataset creation", "curation", "collection", "source data", "annotations") {
		v += 0.1
	}
	return score(v), nil
}

// CodeQuality rates engineering hygiene visible in the file tree: tests,
// CI, lint configuration and declared dependencies. Models and datasets
// are rated on their linked code and loading configuration.
type CodeQuality struct{}

func (CodeQuality) Name() string                     { return NameCodeQuality }
func (CodeQuality) AppliesTo(artifact.Category) bool { return true }

var (
	ciPaths   = []string{".github/workflows/", ".gitlab-ci.yml", ".circleci/", ".travis.yml", "azure-pipelines.yml", "Jenkinsfile"}
	lintFiles = []string{".flake8", "ruff.toml", ".ruff.toml", ".pre-commit-config.yaml", ".golangci.yml", ".golangci.yaml", "mypy.ini", "tox.ini", ".pylintrc", ".editorconfig", "rustfmt.toml", ".rubocop.yml", "setup.cfg"}
)

func (CodeQuality) Score(_ context.Context, m *source.Metadata) (Result, error) {
	d := parseDocument(m.Readme)
	if m.Ref.Category != artifact.CategoryCode {
		var v float64
		if len(m.CodeLinks) > 0 {
			v += 0.4
		}
		if len(m.Manifests) > 0 {
			v += 0.2
		}
		if m.HasConfig {
			v += 0.2
		}
		if d.countBlocks(runnable) > 0 {
			v += 0.2
		}
		return score(v), nil
	}

	var v float64
	if hasTests(m.Files) {
		v += 0.25
	}
	if anyPath(m.Files, func(p string) bool {
		for _, ci := range ciPaths {
			if strings.HasPrefix(p, ci) || p == strings.TrimSuffix(ci, "/") {
				return true
			}
		}
		return false
	}) {
		v += 0.2
	}
	if anyPath(m.Files, func(p string) bool {
		base := path.Base(p)
		for _, l := range lintFiles {
			if base == l {
				return true
			}
		}
		return strings.HasPrefix(base, ".eslintrc")
	}) {
		v += 0.15
	}
	if len(m.Manifests) > 0 {
		v += 0.15
	}
	if d.countBlocks(runnable) > 0 {
		v += 0.1
	}
	if m.LicenseID != "" || m.LicenseText != "" {
		v += 0.05
	}
	if !m.Archived {
		v += 0.1
	}
	return score(v), nil
}

func hasTests(files []source.File) bool {
	return anyPath(files, func(p string) bool {
		base := path.Base(p)
		if strings.HasPrefix(p, "tests/") || strings.HasPrefix(p, "test/") ||
			strings.Contains(p, "/tests/") || strings.Contains(p, "/test/") {
			return true
		}
		return strings.HasSuffix(base, "_test.go") || strings.HasSuffix(base, "_test.py") ||
			(strings.HasPrefix(base, "test_") && strings.HasSuffix(base, ".py")) ||
			strings.HasSuffix(base, ".test.js") || strings.HasSuffix(base, ".spec.ts")
	})
}

func anyPath(files []source.File, match func(string) bool) bool {
	for _, f := range files {
		if match(f.Path) {
			return true
		}
	}
	return false
}
