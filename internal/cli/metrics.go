package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/trustscore/pkg/artifact"
	"github.com/matzehuels/trustscore/pkg/metrics"
	"github.com/matzehuels/trustscore/pkg/scorer"
)

var categories = []artifact.Category{artifact.CategoryModel, artifact.CategoryDataset, artifact.CategoryCode}

// metricsCommand lists the metric registry with effective weights.
func (c *CLI) metricsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "List the registered metrics, their weights and where they apply",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.settings().ScorerOptions()
			if err != nil {
				return err
			}
			sc, err := scorer.New(opts...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, metricsTable(metrics.Default(), sc))
			printKeyValue(out, "Policy", string(sc.Policy()))
			return nil
		},
	}
}

func metricsTable(r *metrics.Registry, sc *scorer.Scorer) string {
	rows := make([][]string, 0, r.Len())
	for _, m := range r.All() {
		var applies []string
		for _, cat := range categories {
			if m.AppliesTo(cat) {
				applies = append(applies, string(cat))
			}
		}
		rows = append(rows, []string{m.Name(), fmt.Sprintf("%.2f", sc.Weight(m.Name())), strings.Join(applies, ", ")})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Metric", "Weight", "Applies to").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case col == 1:
				return StyleNumber
			case col == 2:
				return StyleDim
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
