package network

import (
	"cmp"
	"slices"

	"github.com/matzehuels/nmanet/pkg/errors"
	"github.com/matzehuels/nmanet/pkg/regimen"
	"github.com/matzehuels/nmanet/pkg/trial"
)

// Pair is one direct comparison contributed by one study. T1 < T2.
type Pair struct {
	Study string
	T1    string
	T2    string
	N     int // combined sample size of both arms
}

// Pairs emits every unordered pair of distinct treatments within each study.
// A study with m treatments contributes m*(m-1)/2 pairs; single-arm studies
// contribute none. Aggregates must already be unique per (study, treatment),
// as produced by [trial.Aggregate].
func Pairs(aggs []trial.StudyTreatment) []Pair {
	var out []Pair
	for _, s := range trial.Studies(aggs) {
		ts := s.Treatments
		for i := 0; i < len(ts); i++ {
			for j := i + 1; j < len(ts); j++ {
				out = append(out, canonical(s.ID, ts[i], ts[j]))
			}
		}
	}
	return out
}

func canonical(study string, a, b trial.StudyTreatment) Pair {
	if b.Treatment < a.Treatment {
		a, b = b, a
	}
	return Pair{Study: study, T1: a.Treatment, T2: b.Treatment, N: a.N + b.N}
}

// EdgeSummary aggregates all studies comparing T1 with T2.
type EdgeSummary struct {
	T1   string
	T2   string
	K    int // number of studies making the comparison
	NSum int // combined sample size over those studies
}

// NodeSummary describes one treatment of the network.
type NodeSummary struct {
	Treatment string
	Class     regimen.Class
	NTotal    int // n summed over every study containing the treatment
	Studies   int
	Rank      int  // display rank from the ordering
	Listed    bool // false when the treatment is absent from the priority list
}

// Summary is the edge and node tables of a network.
type Summary struct {
	Edges []EdgeSummary // sorted by (T1, T2)
	Nodes []NodeSummary // sorted by display order
}

// Summarize builds edge and node summaries from study/treatment aggregates.
//
// Node totals come from the aggregates, not from the edges, so treatments of
// single-arm studies accumulate n like any other. The ordering's unlisted
// policy is applied to every treatment.
func Summarize(aggs []trial.StudyTreatment, o *regimen.Ordering) (*Summary, error) {
	if len(aggs) == 0 {
		return nil, errors.New(errors.ErrCodeDegenerateInput, "no study/treatment rows")
	}

	s := &Summary{
		Edges: SummarizeEdges(Pairs(aggs)),
		Nodes: summarizeNodes(aggs),
	}

	names := make([]string, len(s.Nodes))
	for i, n := range s.Nodes {
		names[i] = n.Treatment
	}
	if err := o.Check(names); err != nil {
		return nil, err
	}
	for i := range s.Nodes {
		s.Nodes[i].Rank, s.Nodes[i].Listed = o.Rank(s.Nodes[i].Treatment)
	}
	slices.SortStableFunc(s.Nodes, func(a, b NodeSummary) int {
		return o.Compare(a.Treatment, b.Treatment)
	})

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// SummarizeEdges groups pairs by (T1, T2). Pairs must be canonical.
func SummarizeEdges(pairs []Pair) []EdgeSummary {
	type key struct{ t1, t2 string }
	pos := make(map[key]int)
	var out []EdgeSummary
	for _, p := range pairs {
		k := key{p.T1, p.T2}
		i, ok := pos[k]
		if !ok {
			i = len(out)
			pos[k] = i
			out = append(out, EdgeSummary{T1: p.T1, T2: p.T2})
		}
		out[i].K++
		out[i].NSum += p.N
	}
	slices.SortFunc(out, func(a, b EdgeSummary) int {
		return cmp.Or(cmp.Compare(a.T1, b.T1), cmp.Compare(a.T2, b.T2))
	})
	return out
}

func summarizeNodes(aggs []trial.StudyTreatment) []NodeSummary {
	pos := make(map[string]int)
	var out []NodeSummary
	for _, a := range aggs {
		i, ok := pos[a.Treatment]
		if !ok {
			i = len(out)
			pos[a.Treatment] = i
			out = append(out, NodeSummary{Treatment: a.Treatment, Class: a.Class})
		}
		out[i].NTotal += a.N
		out[i].Studies++
	}
	return out
}

// Validate checks that every edge endpoint is a node, that no edge is a
// self-loop, and that nodes are unique.
func (s *Summary) Validate() error {
	if len(s.Nodes) == 0 {
		return errors.New(errors.ErrCodeDegenerateInput, "network has no treatments")
	}
	nodes := make(map[string]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		if nodes[n.Treatment] {
			return errors.New(errors.ErrCodeInternal, "treatment %q summarized twice", n.Treatment)
		}
		nodes[n.Treatment] = true
	}
	for _, e := range s.Edges {
		if e.T1 == e.T2 {
			return errors.New(errors.ErrCodeInternal, "self-loop on %q", e.T1)
		}
		for _, t := range []string{e.T1, e.T2} {
			if !nodes[t] {
				return errors.New(errors.ErrCodeDanglingReference, "edge %s-%s references unknown treatment %q", e.T1, e.T2, t)
			}
		}
	}
	return nil
}

// Node returns the summary of treatment t.
func (s *Summary) Node(t string) (NodeSummary, bool) {
	for _, n := range s.Nodes {
		if n.Treatment == t {
			return n, true
		}
	}
	return NodeSummary{}, false
}

// Edge returns the summary of the comparison between a and b, in either order.
func (s *Summary) Edge(a, b string) (EdgeSummary, bool) {
	if b < a {
		a, b = b, a
	}
	for _, e := range s.Edges {
		if e.T1 == a && e.T2 == b {
			return e, true
		}
	}
	return EdgeSummary{}, false
}

// Isolated returns the treatments that take part in no comparison, in
// display order. These come from single-arm studies.
func (s *Summary) Isolated() []string {
	linked := make(map[string]bool)
	for _, e := range s.Edges {
		linked[e.T1], linked[e.T2] = true, true
	}
	var out []string
	for _, n := range s.Nodes {
		if !linked[n.Treatment] {
			out = append(out, n.Treatment)
		}
	}
	return out
}
