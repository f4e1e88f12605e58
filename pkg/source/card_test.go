package source

import (
	"slices"
	"testing"
)

const sampleCard = `---
license: apache-2.0
datasets:
  - squad
  - glue
base_model: bert-base-uncased
tags:
  - text-classification
  - "license:apache-2.0"
language: en
model-index:
  - name: my-model
    results:
      - task:
          type: question-answering
        dataset:
          name: SQuAD
        metrics:
          - type: f1
            value: 88.5
          - type: exact_match
            value: "80.1%"
          - type: note
            value: n/a
---
# My model

Fine-tuned BERT.
`

func TestSplitFrontMatter(t *testing.T) {
	tests := []struct {
		name, in, front, body string
	}{
		{"none", "# Title\n", "", "# Title\n"},
		{"block", "---\na: 1\n---\nbody", "a: 1", "body"},
		{"only front", "---\na: 1\n---", "a: 1", ""},
		{"unterminated", "---\na: 1\n", "", "---\na: 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			front, body := SplitFrontMatter(tt.in)
			if front != tt.front || body != tt.body {
				t.Errorf("SplitFrontMatter = (%q, %q), want (%q, %q)", front, body, tt.front, tt.body)
			}
		})
	}
}

func TestParseCard(t *testing.T) {
	front, body := SplitFrontMatter(sampleCard)
	if body != "# My model\n\nFine-tuned BERT.\n" {
		t.Errorf("body = %q", body)
	}

	card, err := ParseCard(front)
	if err != nil {
		t.Fatalf("ParseCard: %v", err)
	}
	if card.License != "apache-2.0" {
		t.Errorf("License = %q", card.License)
	}
	if !slices.Equal(card.Datasets, []string{"squad", "glue"}) {
		t.Errorf("Datasets = %v", card.Datasets)
	}
	if !slices.Equal(card.BaseModels, []string{"bert-base-uncased"}) {
		t.Errorf("BaseModels = %v", card.BaseModels)
	}
	if !slices.Equal(card.Languages, []string{"en"}) {
		t.Errorf("Languages = %v", card.Languages)
	}
	if len(card.EvalResults) != 2 {
		t.Fatalf("EvalResults = %+v", card.EvalResults)
	}
	if r := card.EvalResults[0]; r.Task != "question-answering" || r.Dataset != "SQuAD" || r.Metric != "f1" || r.Value != 88.5 {
		t.Errorf("EvalResults[0] = %+v", r)
	}
	if card.EvalResults[1].Value != 80.1 {
		t.Errorf("percent value = %v", card.EvalResults[1].Value)
	}
}

func TestParseCardInvalid(t *testing.T) {
	if _, err := ParseCard("license: [unterminated"); err == nil {
		t.Error("expected error")
	}
	card, err := ParseCard("   ")
	if err != nil || card.License != "" {
		t.Errorf("empty front matter = %+v, %v", card, err)
	}
}

func TestNormalizeText(t *testing.T) {
	if got := NormalizeText("ＡＢＣ\r\nﬁne\r"); got != "ABC\nfine\n" {
		t.Errorf("NormalizeText = %q", got)
	}
}

func TestLicenseSection(t *testing.T) {
	body := "# Model\n\ntext\n\n## License\n\nMIT, see LICENSE.\n\n## Citation\n\n@misc"
	if got := licenseSection(body); got != "MIT, see LICENSE." {
		t.Errorf("licenseSection = %q", got)
	}
	if got := licenseSection("# Model\n"); got != "" {
		t.Errorf("licenseSection = %q, want empty", got)
	}
}
