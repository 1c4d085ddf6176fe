// Package trial reshapes wide trial-record tables into per-arm observations.
//
// # Wide Form
//
// Input tables carry one row per study. Arms are spread over repeated column
// groups that share a textual prefix and a numeric arm suffix:
//
//	study, t..1., t..2., t..3., n..1., n..2., n..3., r..1., r..2., r..3.
//
// The three groups hold treatment label, enrolled count and responder count.
// Arm indexes are aligned across the groups within a study.
//
// # Pipeline
//
//  1. [ReadCSV] loads the table and drops stray index columns.
//  2. [Reshape] pivots one prefix group into (study, arm, value) cells.
//  3. [Merge] joins the three pivots and keeps arms with a treatment and an n.
//  4. [Aggregate] collapses arms to one row per (study, treatment).
//
// Responder counts may be missing (continuous endpoints); they never cause an
// arm to be dropped.
//
// # Errors
//
// Schema problems (absent prefix group, malformed arm suffix, missing study
// column) are INVALID_SCHEMA; unparsable counts are INVALID_VALUE; empty
// tables or studies left without arms are DEGENERATE_INPUT. See
// [github.com/matzehuels/nmanet/pkg/errors].
package trial
