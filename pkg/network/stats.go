package network

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/nmanet/pkg/trial"
)

// Stats describes the size and evidence density of a network.
type Stats struct {
	Studies      int
	SingleArm    int // studies with one treatment, excluded from the edges
	Treatments   int
	Comparisons  int // distinct treatment pairs
	Participants int
	MeanK        float64 // mean studies per comparison
	MaxK         int
	Components   int
}

// Describe computes network statistics.
func Describe(aggs []trial.StudyTreatment, g *Graph) Stats {
	st := Stats{
		Treatments:  g.NodeCount(),
		Comparisons: g.EdgeCount(),
		Components:  len(g.Components()),
	}
	for _, s := range trial.Studies(aggs) {
		st.Studies++
		if len(s.Treatments) < 2 {
			st.SingleArm++
		}
		for _, t := range s.Treatments {
			st.Participants += t.N
		}
	}
	if len(g.edges) > 0 {
		ks := make([]float64, len(g.edges))
		for i, e := range g.edges {
			ks[i] = float64(e.K)
		}
		st.MeanK = stat.Mean(ks, nil)
		st.MaxK = int(floats.Max(ks))
	}
	return st
}
