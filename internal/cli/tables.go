package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/nmanet/pkg/config"
	"github.com/matzehuels/nmanet/pkg/models"
	"github.com/matzehuels/nmanet/pkg/network"
)

var (
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleCell    = lipgloss.NewStyle().Padding(0, 1)
	styleNumCell = styleCell.Align(lipgloss.Right)
)

// newTable returns a bordered table; columns listed in numeric are
// right-aligned.
func newTable(headers []string, rows [][]string, numeric ...int) *table.Table {
	isNum := make(map[int]bool, len(numeric))
	for _, c := range numeric {
		isNum[c] = true
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader.Padding(0, 1)
			}
			if isNum[col] {
				return styleNumCell
			}
			return styleCell
		})
}

func nodeTable(nodes []network.NodeSummary, g *network.Graph) string {
	rows := make([][]string, len(nodes))
	for i, n := range nodes {
		order := strconv.Itoa(n.Rank + 1)
		if !n.Listed {
			order = "–"
		}
		rows[i] = []string{
			order,
			n.Treatment,
			n.Class.String(),
			strconv.Itoa(n.Studies),
			strconv.Itoa(n.NTotal),
			strconv.Itoa(g.Degree(n.Treatment)),
		}
	}
	return newTable([]string{"#", "Treatment", "Class", "Studies", "n", "Degree"}, rows, 0, 3, 4, 5).Render()
}

func edgeTable(edges []network.EdgeSummary) string {
	rows := make([][]string, len(edges))
	for i, e := range edges {
		rows[i] = []string{e.T1, e.T2, strconv.Itoa(e.K), strconv.Itoa(e.NSum)}
	}
	return newTable([]string{"T1", "T2", "k", "n"}, rows, 2, 3).Render()
}

func modelTable(ms []models.Model) string {
	rows := make([][]string, len(ms))
	for i, m := range ms {
		opts := m.Options
		if opts == "" {
			opts = "–"
		}
		rows[i] = []string{m.Name, m.Function, opts, string(m.Method)}
	}
	return newTable([]string{"Model", "Function", "Options", "Effects"}, rows).Render()
}

func comparisonTable(cs []models.Comparison) string {
	rows := make([][]string, len(cs))
	for i, c := range cs {
		mark := ""
		if c.Preferred {
			mark = iconSuccess
		}
		rows[i] = []string{
			strconv.Itoa(c.Rank),
			c.Model,
			fmt.Sprintf("%.2f", c.DIC),
			fmt.Sprintf("%.2f", c.DeltaDIC),
			fmt.Sprintf("%.3f", c.Weight),
			fmt.Sprintf("%.2f", c.PD),
			fmt.Sprintf("%.2f", c.ResDev),
			mark,
		}
	}
	return newTable([]string{"#", "Model", "DIC", "ΔDIC", "Weight", "pD", "resdev", ""}, rows, 0, 2, 3, 4, 5, 6).Render()
}

func variantTable(vs []config.Variant) string {
	rows := make([][]string, len(vs))
	for i, v := range vs {
		suffix := v.FileSuffix
		if suffix == "" {
			suffix = "–"
		}
		unlisted := v.Unlisted
		if unlisted == "" {
			unlisted = "last"
		}
		rows[i] = []string{v.Name, suffix, strings.Join(v.Order, ", "), unlisted}
	}
	return newTable([]string{"Variant", "File suffix", "Display order", "Unlisted"}, rows).Render()
}
