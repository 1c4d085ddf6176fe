package nodelink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/nmanet/pkg/network"
	"github.com/matzehuels/nmanet/pkg/regimen"
)

// Palette maps drug classes to fill colors.
type Palette map[regimen.Class]string

// DefaultPalette is a colorblind-safe qualitative palette.
var DefaultPalette = Palette{
	regimen.MPSL:    "#1b9e77",
	regimen.DEX:     "#d95f02",
	regimen.HC:      "#7570b3",
	regimen.Placebo: "#bdbdbd",
	regimen.Other:   "#e7298a",
}

// Color returns the fill for c, falling back to the Other color.
func (p Palette) Color(c regimen.Class) string {
	if col, ok := p[c]; ok {
		return col
	}
	if col, ok := p[regimen.Other]; ok {
		return col
	}
	return DefaultPalette[regimen.Other]
}

// Options configures network diagram generation.
type Options struct {
	// Palette colors nodes by class. Nil uses DefaultPalette.
	Palette Palette
	// MinNodeSize and MaxNodeSize bound node diameters in inches. The largest
	// n_total gets MaxNodeSize; others scale linearly down to MinNodeSize.
	MinNodeSize float64
	MaxNodeSize float64
	// PenPerStudy is the edge width contributed by each study (k).
	PenPerStudy float64
	// EdgeLabels annotates edges with k and n_sum.
	EdgeLabels bool
	// Legend adds a class legend below the network.
	Legend bool
	// HideIsolated omits treatments that have no comparison.
	HideIsolated bool
}

// DefaultOptions returns the options used by the CLI.
func DefaultOptions() Options {
	return Options{
		Palette:     DefaultPalette,
		MinNodeSize: 0.6,
		MaxNodeSize: 1.8,
		PenPerStudy: 1.5,
		EdgeLabels:  true,
		Legend:      true,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Palette == nil {
		o.Palette = d.Palette
	}
	if o.MinNodeSize <= 0 {
		o.MinNodeSize = d.MinNodeSize
	}
	if o.MaxNodeSize < o.MinNodeSize {
		o.MaxNodeSize = o.MinNodeSize
	}
	if o.PenPerStudy <= 0 {
		o.PenPerStudy = d.PenPerStudy
	}
	return o
}

// ToDOT converts a treatment network to Graphviz DOT for circular layout.
// Nodes are emitted in display order, which circo follows around the circle.
func ToDOT(g *network.Graph, opts Options) string {
	opts = opts.withDefaults()

	isolated := make(map[string]bool)
	for _, n := range g.Nodes() {
		if g.Degree(n.Treatment) == 0 {
			isolated[n.Treatment] = true
		}
	}

	var buf bytes.Buffer
	buf.WriteString("graph NMA {\n")
	buf.WriteString("  layout=circo;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  mindist=1.2;\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, fontname=\"Helvetica\", fontsize=12, color=\"#333333\"];\n")
	buf.WriteString("  edge [color=\"#555555\", fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("\n")

	var visible []network.NodeSummary
	for _, n := range g.Nodes() {
		if opts.HideIsolated && isolated[n.Treatment] {
			continue
		}
		visible = append(visible, n)
	}

	maxN := 0
	for _, n := range visible {
		maxN = max(maxN, n.NTotal)
	}
	for _, n := range visible {
		attrs := fmtNodeAttrs(n, nodeSize(n.NTotal, maxN, opts), opts.Palette)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Treatment, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		attrs := fmtEdgeAttrs(e, opts)
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", e.T1, e.T2, strings.Join(attrs, ", "))
	}

	if opts.Legend {
		if legend := fmtLegend(visible, opts.Palette); legend != "" {
			buf.WriteString("\n")
			fmt.Fprintf(&buf, "  labelloc=b;\n  label=<%s>;\n", legend)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// nodeSize scales n linearly into [MinNodeSize, MaxNodeSize].
func nodeSize(n, maxN int, opts Options) float64 {
	if maxN <= 0 {
		return opts.MinNodeSize
	}
	return opts.MinNodeSize + (opts.MaxNodeSize-opts.MinNodeSize)*float64(n)/float64(maxN)
}

func fmtNodeAttrs(n network.NodeSummary, size float64, p Palette) []string {
	label := fmt.Sprintf("%s\nn=%d", n.Treatment, n.NTotal)
	return []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("width=%.2f", size),
		fmt.Sprintf("fillcolor=%q", p.Color(n.Class)),
		fmt.Sprintf("tooltip=%q", n.Class.String()),
	}
}

func fmtEdgeAttrs(e network.EdgeSummary, opts Options) []string {
	attrs := []string{fmt.Sprintf("penwidth=%.2f", float64(e.K)*opts.PenPerStudy)}
	if opts.EdgeLabels {
		attrs = append(attrs, fmt.Sprintf("label=%q", fmt.Sprintf("k=%d\nn=%d", e.K, e.NSum)))
	}
	return attrs
}

// fmtLegend returns an HTML-like table with one swatch per class present.
func fmtLegend(nodes []network.NodeSummary, p Palette) string {
	present := make(map[regimen.Class]bool)
	for _, n := range nodes {
		present[n.Class] = true
	}
	var cells []string
	for _, c := range regimen.Classes {
		if !present[c] {
			continue
		}
		cells = append(cells,
			fmt.Sprintf(`<td bgcolor="%s" width="14" height="14"></td><td align="left">%s</td>`, p.Color(c), c))
	}
	if len(cells) == 0 {
		return ""
	}
	return `<table border="0" cellspacing="4"><tr>` + strings.Join(cells, "") + `</tr></table>`
}
