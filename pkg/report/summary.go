package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
)

// Entry is one artifact of a batch summary.
type Entry struct {
	URL    string
	Row    Row
	Failed bool
	// Reason explains a failure or lists degraded fields.
	Reason string
}

// WriteSummary writes a markdown overview of a batch: one table row per
// artifact in input order followed by totals.
func WriteSummary(w io.Writer, entries []Entry) error {
	md := markdown.NewMarkdown(w)
	md.H1("Trust score summary")
	md.PlainText("")

	rows := make([][]string, 0, len(entries))
	failed := 0
	for _, e := range entries {
		status := "ok"
		if e.Failed {
			status = "failed"
			failed++
		}
		if e.Reason != "" {
			status += ": " + e.Reason
		}
		rows = append(rows, []string{
			e.Row.Name,
			e.Row.Category,
			strconv.FormatFloat(e.Row.NetScore, 'f', 3, 64),
			strconv.FormatFloat(e.Row.License, 'f', 3, 64),
			strconv.FormatFloat(e.Row.BusFactor, 'f', 3, 64),
			strconv.FormatFloat(e.Row.RampUpTime, 'f', 3, 64),
			status,
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Name", "Category", "Net score", "License", "Bus factor", "Ramp up", "Status"},
		Rows:   rows,
	})
	md.PlainText("")

	md.H2("Totals")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Artifacts", "Scored", "Failed"},
		Rows: [][]string{{
			strconv.Itoa(len(entries)),
			strconv.Itoa(len(entries) - failed),
			strconv.Itoa(failed),
		}},
	})
	if err := md.Build(); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
