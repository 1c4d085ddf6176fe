package trial

import "github.com/matzehuels/nmanet/pkg/regimen"

// StudyTreatment is the total of all arms sharing a treatment label within a
// study.
type StudyTreatment struct {
	Study     string
	Treatment string
	Class     regimen.Class
	N         int
	R         int
	HasR      bool // true when any contributing arm had a responder count
}

// Aggregate collapses arms to one row per (study, treatment), summing n and
// r. Missing r counts as zero. Rows keep the order in which each
// (study, treatment) was first seen.
func Aggregate(arms []Arm) []StudyTreatment {
	type key struct{ study, treatment string }
	pos := make(map[key]int, len(arms))
	var out []StudyTreatment

	for _, a := range arms {
		k := key{a.Study, a.Treatment}
		i, ok := pos[k]
		if !ok {
			i = len(out)
			pos[k] = i
			out = append(out, StudyTreatment{Study: a.Study, Treatment: a.Treatment, Class: a.Class})
		}
		out[i].N += a.N
		if a.HasR {
			out[i].R += a.R
			out[i].HasR = true
		}
	}
	return out
}

// Arms expands aggregates back into one arm per row, with the treatment
// label as arm id.
func Arms(aggs []StudyTreatment) []Arm {
	arms := make([]Arm, len(aggs))
	for i, a := range aggs {
		arms[i] = Arm{
			Study:     a.Study,
			ArmID:     a.Treatment,
			Treatment: a.Treatment,
			Class:     a.Class,
			N:         a.N,
			R:         a.R,
			HasR:      a.HasR,
		}
	}
	return arms
}

// Study is one study with its distinct treatments.
type Study struct {
	ID         string
	Treatments []StudyTreatment
}

// Studies groups aggregates by study, in first-seen order.
func Studies(aggs []StudyTreatment) []Study {
	pos := make(map[string]int)
	var out []Study
	for _, a := range aggs {
		i, ok := pos[a.Study]
		if !ok {
			i = len(out)
			pos[a.Study] = i
			out = append(out, Study{ID: a.Study})
		}
		out[i].Treatments = append(out[i].Treatments, a)
	}
	return out
}
