package metrics

import (
	"slices"
	"testing"
)

func TestParseDocument(t *testing.T) {
	text := "# Title\n\nIntro text.\n\n```python\n# not a heading\nimport x\n```\n\n## Usage\n\n    $ tool run\n\n- item\n    continued\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"
	d := parseDocument(text)

	if !slices.Equal(d.headings, []string{"title", "usage"}) {
		t.Errorf("headings = %q", d.headings)
	}
	if len(d.blocks) != 2 {
		t.Fatalf("blocks = %+v", d.blocks)
	}
	if d.blocks[0].lang != "python" || d.blocks[1].body != "$ tool run" {
		t.Errorf("blocks = %+v", d.blocks)
	}
	if d.tables != 1 {
		t.Errorf("tables = %d", d.tables)
	}
	if !runnable(d.blocks[1]) {
		t.Error("shell prompt block should be runnable")
	}
}

func TestParseDocumentUnterminatedFence(t *testing.T) {
	d := parseDocument("```\npip install x\n")
	if len(d.blocks) != 1 || !d.hasInstall() {
		t.Errorf("blocks = %+v", d.blocks)
	}
}

func TestParseDocumentEmpty(t *testing.T) {
	if d := parseDocument("  \n\n"); !d.empty() {
		t.Error("whitespace-only text should be empty")
	}
}
