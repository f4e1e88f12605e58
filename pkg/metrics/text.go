package metrics

import (
	"regexp"
	"strings"
)

// codeBlock is a fenced or indented block of a README.
type codeBlock struct {
	lang string
	body string
}

// document is a README broken into the parts metrics look at.
type document struct {
	lower    string
	words    int
	headings []string
	blocks   []codeBlock
	tables   int
}

var (
	headingRE = regexp.MustCompile(`^\s{0,3}#{1,6}\s+(.+?)\s*#*\s*$`)
	tableRE   = regexp.MustCompile(`^\s*\|?\s*:?-{3,}:?\s*(\|\s*:?-{3,}:?\s*)+\|?\s*$`)
)

// parseDocument splits markdown text into headings, code blocks and tables.
// Headings inside code blocks are ignored.
func parseDocument(text string) document {
	d := document{lower: strings.ToLower(text), words: len(strings.Fields(text))}

	var (
		fence     string
		current   *codeBlock
		body      strings.Builder
		indented  []string
		prevBlank = true
	)
	flushIndented := func() {
		if len(indented) > 0 {
			d.blocks = append(d.blocks, codeBlock{body: strings.Join(indented, "\n")})
			indented = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if current != nil {
			if strings.HasPrefix(trimmed, fence) {
				current.body = body.String()
				d.blocks = append(d.blocks, *current)
				current = nil
				continue
			}
			body.WriteString(line)
			body.WriteByte('\n')
			continue
		}

		if marker, ok := fenceMarker(trimmed); ok {
			flushIndented()
			fence = marker
			current = &codeBlock{lang: strings.ToLower(strings.TrimSpace(strings.TrimLeft(trimmed, marker[:1])))}
			body.Reset()
			continue
		}

		if isIndentedCode(line) && (prevBlank || len(indented) > 0) {
			indented = append(indented, trimmed)
			continue
		}
		if trimmed != "" {
			flushIndented()
		}
		prevBlank = trimmed == ""

		if m := headingRE.FindStringSubmatch(line); m != nil {
			d.headings = append(d.headings, strings.ToLower(m[1]))
		}
		if tableRE.MatchString(line) {
			d.tables++
		}
	}
	flushIndented()
	// An unterminated fence still counts as a block.
	if current != nil {
		current.body = body.String()
		d.blocks = append(d.blocks, *current)
	}
	return d
}

func fenceMarker(trimmed string) (string, bool) {
	for _, m := range []string{"```", "~~~"} {
		if strings.HasPrefix(trimmed, m) {
			return m, true
		}
	}
	return "", false
}

func isIndentedCode(line string) bool {
	if !strings.HasPrefix(line, "    ") && !strings.HasPrefix(line, "\t") {
		return false
	}
	t := strings.TrimSpace(line)
	if t == "" {
		return false
	}
	// Continuation lines of list items are not code.
	switch t[0] {
	case '-', '*', '+':
		return false
	}
	return true
}

func (d document) empty() bool { return d.words == 0 }

// hasHeading reports whether any heading contains one of keys.
func (d document) hasHeading(keys ...string) bool {
	for _, h := range d.headings {
		for _, k := range keys {
			if strings.Contains(h, k) {
				return true
			}
		}
	}
	return false
}

// mentions reports whether the text contains one of keys, case-insensitively.
func (d document) mentions(keys ...string) bool {
	for _, k := range keys {
		if strings.Contains(d.lower, k) {
			return true
		}
	}
	return false
}

// countBlocks returns the number of code blocks accepted by keep.
func (d document) countBlocks(keep func(codeBlock) bool) int {
	n := 0
	for _, b := range d.blocks {
		if keep(b) {
			n++
		}
	}
	return n
}

var installRE = regexp.MustCompile(`(?m)(pip3? install|conda install|npm (i|install)|yarn add|go (get|install)|cargo (add|install)|gem install|git clone|docker (pull|run)|poetry add|uv (pip|add))`)

// hasInstall reports whether the text shows how to install the artifact.
func (d document) hasInstall() bool {
	return installRE.MatchString(d.lower) || d.hasHeading("install", "setup", "getting started")
}

var runnableRE = regexp.MustCompile(`(?m)^\s*(import |from \S+ import |\$ |>>> |python3? |[a-z][\w-]* (--?\w|run|serve|train))`)

// runnable reports whether a block looks like code a reader can execute.
func runnable(b codeBlock) bool {
	switch b.lang {
	case "python", "py", "bash", "sh", "shell", "console", "go", "js", "javascript", "ts", "typescript", "rust", "ruby":
		return strings.TrimSpace(b.body) != ""
	}
	return runnableRE.MatchString(b.body)
}

func anyBlock(b codeBlock) bool { return strings.TrimSpace(b.body) != "" }
