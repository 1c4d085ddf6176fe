package network

import (
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/matzehuels/nmanet/pkg/errors"
)

// Graph is the undirected evidence network: treatments as nodes, direct
// comparisons as edges weighted by combined sample size.
//
// The vertex set is the node summary, so treatments seen only in single-arm
// studies are present as isolated nodes. Graph is immutable after [Build].
type Graph struct {
	g     *simple.WeightedUndirectedGraph
	ids   map[string]int64
	nodes []NodeSummary
	edges []EdgeSummary
}

// Build constructs the graph from s. Node ids follow display order.
func Build(s *Summary) (*Graph, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	g := &Graph{
		g:     simple.NewWeightedUndirectedGraph(0, 0),
		ids:   make(map[string]int64, len(s.Nodes)),
		nodes: slices.Clone(s.Nodes),
		edges: slices.Clone(s.Edges),
	}
	for i, n := range g.nodes {
		id := int64(i)
		g.ids[n.Treatment] = id
		g.g.AddNode(simple.Node(id))
	}
	for _, e := range g.edges {
		u, v := g.ids[e.T1], g.ids[e.T2]
		if g.g.HasEdgeBetween(u, v) {
			return nil, errors.New(errors.ErrCodeInternal, "edge %s-%s summarized twice", e.T1, e.T2)
		}
		g.g.SetWeightedEdge(g.g.NewWeightedEdge(simple.Node(u), simple.Node(v), float64(e.NSum)))
	}
	return g, nil
}

// Nodes returns the node summaries in display order.
func (g *Graph) Nodes() []NodeSummary { return g.nodes }

// Edges returns the edge summaries sorted by (T1, T2).
func (g *Graph) Edges() []EdgeSummary { return g.edges }

// NodeCount returns the number of treatments.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of distinct comparisons.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Degree returns the number of treatments directly compared with t.
func (g *Graph) Degree(t string) int {
	id, ok := g.ids[t]
	if !ok {
		return 0
	}
	return g.g.From(id).Len()
}

// Weight returns the combined sample size of the a-b comparison, or false
// when the two were never compared directly.
func (g *Graph) Weight(a, b string) (int, bool) {
	u, okU := g.ids[a]
	v, okV := g.ids[b]
	if !okU || !okV || u == v {
		return 0, false
	}
	e := g.g.WeightedEdge(u, v)
	if e == nil {
		return 0, false
	}
	return int(e.Weight()), true
}

// Components returns the connected components as treatment lists. Components
// and their members are in display order.
func (g *Graph) Components() [][]string {
	comps := topo.ConnectedComponents(g.g)
	out := make([][]string, 0, len(comps))
	for _, c := range comps {
		ids := make([]int64, len(c))
		for i, n := range c {
			ids[i] = n.ID()
		}
		slices.Sort(ids)
		names := make([]string, len(ids))
		for i, id := range ids {
			names[i] = g.nodes[id].Treatment
		}
		out = append(out, names)
	}
	slices.SortFunc(out, func(a, b []string) int {
		return int(g.ids[a[0]] - g.ids[b[0]])
	})
	return out
}

// Connected reports whether every treatment is reachable from every other.
// Indirect comparisons require a connected network.
func (g *Graph) Connected() bool {
	return len(g.Components()) <= 1
}
