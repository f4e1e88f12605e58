package artifact

import (
	"bufio"
	"io"
	"strings"
)

// ReadURLs reads newline-delimited artifact URLs from r.
// Blank lines and lines starting with '#' are skipped; every other line is
// returned verbatim (trimmed), including lines that are not valid URLs or
// are arbitrarily long, so that each one produces exactly one output row.
func ReadURLs(r io.Reader) ([]string, error) {
	var urls []string
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" && !strings.HasPrefix(line, "#") {
			urls = append(urls, line)
		}
		if err == io.EOF {
			return urls, nil
		}
		if err != nil {
			return urls, err
		}
	}
}
