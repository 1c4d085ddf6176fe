package models

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// PreferredDelta is the DIC difference within which fits are considered
// equally supported.
const PreferredDelta = 5.0

// Comparison ranks one fit against the others.
type Comparison struct {
	Fit
	Rank      int     // 1 is the lowest DIC
	DeltaDIC  float64 // DIC minus the best DIC
	Weight    float64 // DIC weight, summing to 1 over all fits
	Preferred bool    // DeltaDIC <= PreferredDelta
}

// Compare ranks fits by DIC ascending. Ties keep registry order.
func Compare(fits []Fit) []Comparison {
	if len(fits) == 0 {
		return nil
	}
	sorted := slices.Clone(fits)
	slices.SortStableFunc(sorted, func(a, b Fit) int {
		return cmp.Or(cmp.Compare(a.DIC, b.DIC), cmp.Compare(index(a.Model), index(b.Model)))
	})

	best := sorted[0].DIC
	w := make([]float64, len(sorted))
	for i, f := range sorted {
		w[i] = math.Exp(-(f.DIC - best) / 2)
	}
	floats.Scale(1/floats.Sum(w), w)

	out := make([]Comparison, len(sorted))
	for i, f := range sorted {
		d := f.DIC - best
		out[i] = Comparison{
			Fit:       f,
			Rank:      i + 1,
			DeltaDIC:  d,
			Weight:    w[i],
			Preferred: d <= PreferredDelta,
		}
	}
	return out
}
