package metrics

import (
	"context"
	"regexp"
	"strings"

	"github.com/matzehuels/trustscore/pkg/artifact"
	"github.com/matzehuels/trustscore/pkg/source"
)

// License rates how freely the artifact can be reused alongside LGPL-2.1
// code. Permissive licenses score highest, copyleft and use-restricted
// licenses lower, and a missing license zero.
type License struct{}

func (License) Name() string                     { return NameLicense }
func (License) AppliesTo(artifact.Category) bool { return true }

const (
	licensePermissive   = 1.0
	licenseWeakCopyleft = 0.8
	licenseShareAlike   = 0.6
	licenseRestricted   = 0.5
	licenseUnrecognized = 0.3
	licenseStrong       = 0.2
)

// licenseScores maps lowercase SPDX ids and hub license names to a score.
var licenseScores = map[string]float64{
	"mit":          licensePermissive,
	"apache-2.0":   licensePermissive,
	"bsd-2-clause": licensePermissive,
	"bsd-3-clause": licensePermissive,
	"isc":          licensePermissive,
	"zlib":         licensePermissive,
	"bsl-1.0":      licensePermissive,
	"0bsd":         licensePermissive,
	"unlicense":    licensePermissive,
	"cc0-1.0":      licensePermissive,
	"cc-by-3.0":    licensePermissive,
	"cc-by-4.0":    licensePermissive,
	"odc-by":       licensePermissive,
	"pddl":         licensePermissive,

	"lgpl-2.1":      licenseWeakCopyleft,
	"lgpl-2.1-only": licenseWeakCopyleft,
	"lgpl-3.0":      licenseWeakCopyleft,
	"lgpl-3.0-only": licenseWeakCopyleft,
	"lgpl-lr":       licenseWeakCopyleft,
	"mpl-2.0":       licenseWeakCopyleft,
	"epl-2.0":       licenseWeakCopyleft,

	"cc-by-sa-3.0": licenseShareAlike,
	"cc-by-sa-4.0": licenseShareAlike,
	"odbl":         licenseShareAlike,

	"openrail":                  licenseRestricted,
	"openrail++":                licenseRestricted,
	"creativeml-openrail-m":     licenseRestricted,
	"bigscience-openrail-m":     licenseRestricted,
	"bigscience-bloom-rail-1.0": licenseRestricted,
	"llama2":                    licenseRestricted,
	"llama3":                    licenseRestricted,
	"llama3.1":                  licenseRestricted,
	"gemma":                     licenseRestricted,

	"gpl-2.0":         licenseStrong,
	"gpl-2.0-only":    licenseStrong,
	"gpl-3.0":         licenseStrong,
	"gpl-3.0-only":    licenseStrong,
	"agpl-3.0":        licenseStrong,
	"agpl-3.0-only":   licenseStrong,
	"cc-by-nc-4.0":    licenseStrong,
	"cc-by-nc-sa-4.0": licenseStrong,
	"cc-by-nc-nd-4.0": licenseStrong,
}

// licenseTextIDs recognizes common license texts when no id was reported.
// Order matters: LGPL must be tested before GPL.
var licenseTextIDs = []struct {
	re *regexp.Regexp
	id string
}{
	{regexp.MustCompile(`(?i)gnu lesser general public license`), "lgpl-2.1"},
	{regexp.MustCompile(`(?i)gnu affero general public license`), "agpl-3.0"},
	{regexp.MustCompile(`(?i)gnu general public license`), "gpl-3.0"},
	{regexp.MustCompile(`(?i)apache license,?\s+version 2\.0`), "apache-2.0"},
	{regexp.MustCompile(`(?i)\bmit license\b|permission is hereby granted, free of charge`), "mit"},
	{regexp.MustCompile(`(?i)redistribution and use in source and binary forms`), "bsd-3-clause"},
	{regexp.MustCompile(`(?i)mozilla public license`), "mpl-2.0"},
	{regexp.MustCompile(`(?i)creative commons attribution 4\.0`), "cc-by-4.0"},
}

func (License) Score(_ context.Context, m *source.Metadata) (Result, error) {
	id := strings.ToLower(strings.TrimSpace(m.LicenseID))
	declared := id != ""
	if id == "" || id == "other" || id == "unknown" {
		id = licenseFromText(m.LicenseText)
	}
	if v, ok := licenseScores[id]; ok {
		return score(v), nil
	}
	if declared || strings.TrimSpace(m.LicenseText) != "" {
		return score(licenseUnrecognized), nil
	}
	return score(0), nil
}

func licenseFromText(text string) string {
	for _, l := range licenseTextIDs {
		if l.re.MatchString(text) {
			return l.id
		}
	}
	return ""
}
