// Package network derives the treatment network of a meta-analysis.
//
// # Overview
//
// The input is the per-study treatment totals produced by
// [trial.Aggregate]. From them the package derives:
//
//   - [Pairs]: one row per study per unordered pair of treatments
//   - [Summary]: edges grouped by treatment pair (k studies, n_sum) and
//     nodes grouped by treatment (n_total, class, display rank)
//   - [Graph]: an undirected weighted graph for connectivity checks and
//     rendering
//
// # Pair Canonicalization
//
// Each pair is stored with its two labels in lexicographic order, so "A vs B"
// from one study and "B vs A" from another land in the same edge.
//
// # Single-Arm Studies
//
// A study with one treatment yields no pairs but still contributes its n to
// the node total. Node totals are always computed from the aggregates, never
// from the edges. Such treatments appear as isolated nodes; see
// [Summary.Isolated].
//
// # Example
//
//	aggs := trial.Aggregate(arms)
//	s, err := network.Summarize(aggs, ordering)
//	if err != nil {
//	    return err
//	}
//	g, err := network.Build(s)
//
// [trial.Aggregate]: github.com/matzehuels/nmanet/pkg/trial.Aggregate
package network
