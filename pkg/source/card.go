package source

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// NormalizeText applies NFKC normalization and unifies line endings so that
// full-width characters, ligatures and CRLF files are analyzed like plain text.
func NormalizeText(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// SplitFrontMatter separates a leading YAML block delimited by "---" lines
// from the card body. It returns an empty front matter when there is none.
func SplitFrontMatter(text string) (front, body string) {
	rest, ok := strings.CutPrefix(text, "---\n")
	if !ok {
		return "", text
	}
	if end := strings.Index(rest, "\n---\n"); end >= 0 {
		return rest[:end], rest[end+len("\n---\n"):]
	}
	if end, ok := strings.CutSuffix(rest, "\n---"); ok {
		return end, ""
	}
	return "", text
}

type cardYAML struct {
	License     any    `yaml:"license"`
	Datasets    any    `yaml:"datasets"`
	BaseModel   any    `yaml:"base_model"`
	Tags        any    `yaml:"tags"`
	Language    any    `yaml:"language"`
	Metrics     any    `yaml:"metrics"`
	PipelineTag string `yaml:"pipeline_tag"`
	LibraryName string `yaml:"library_name"`
	ModelIndex  []struct {
		Name    string `yaml:"name"`
		Results []struct {
			Task struct {
				Type string `yaml:"type"`
				Name string `yaml:"name"`
			} `yaml:"task"`
			Dataset struct {
				Type string `yaml:"type"`
				Name string `yaml:"name"`
			} `yaml:"dataset"`
			Metrics []struct {
				Type  string `yaml:"type"`
				Name  string `yaml:"name"`
				Value any    `yaml:"value"`
			} `yaml:"metrics"`
		} `yaml:"results"`
	} `yaml:"model-index"`
}

// ParseCard decodes card front matter.
func ParseCard(front string) (Card, error) {
	if strings.TrimSpace(front) == "" {
		return Card{}, nil
	}
	var raw cardYAML
	if err := yaml.Unmarshal([]byte(front), &raw); err != nil {
		return Card{}, fmt.Errorf("card front matter: %w", err)
	}

	card := Card{
		Datasets:    stringList(raw.Datasets),
		BaseModels:  stringList(raw.BaseModel),
		Tags:        stringList(raw.Tags),
		Languages:   stringList(raw.Language),
		Metrics:     stringList(raw.Metrics),
		PipelineTag: raw.PipelineTag,
		LibraryName: raw.LibraryName,
	}
	if lic := stringList(raw.License); len(lic) > 0 {
		card.License = lic[0]
	}
	for _, mi := range raw.ModelIndex {
		for _, r := range mi.Results {
			task := firstNonEmpty(r.Task.Type, r.Task.Name)
			ds := firstNonEmpty(r.Dataset.Type, r.Dataset.Name)
			for _, m := range r.Metrics {
				v, ok := toFloat(m.Value)
				if !ok {
					continue
				}
				card.EvalResults = append(card.EvalResults, EvalResult{
					Task:    task,
					Dataset: ds,
					Metric:  firstNonEmpty(m.Type, m.Name),
					Value:   v,
				})
			}
		}
	}
	return card, nil
}

func stringList(v any) []string {
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
	case []any:
		var out []string
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case float64:
		return t, true
	case string:
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSuffix(t, "%"), "%g", &f); err == nil {
			return f, true
		}
	}
	return 0, false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
