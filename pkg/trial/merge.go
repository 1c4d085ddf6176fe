package trial

import (
	"math"
	"strconv"

	"github.com/matzehuels/nmanet/pkg/errors"
	"github.com/matzehuels/nmanet/pkg/regimen"
)

// Arm is one valid arm observation.
type Arm struct {
	Study     string
	ArmID     string
	Treatment string
	Class     regimen.Class
	N         int
	R         int
	HasR      bool // false when the responder count was missing
}

// Merge reshapes the three column groups of t and joins them on
// (study, arm). Arms without a treatment or without an n are dropped; a
// missing r keeps the arm with HasR unset. Each kept arm is classified once
// with c.
//
// Merge fails when the table has no studies, when any study is left without
// a valid arm, or when a count cannot be parsed.
func Merge(t *Table, schema Schema, c *regimen.Classifier) ([]Arm, error) {
	t = t.Drop(schema.DropPrefixes...)

	studies, err := t.Studies(schema)
	if err != nil {
		return nil, err
	}
	if len(studies) == 0 {
		return nil, errors.New(errors.ErrCodeDegenerateInput, "%s: no studies", t.Name)
	}

	treatments, err := Reshape(t, schema, schema.TreatmentPrefix)
	if err != nil {
		return nil, err
	}
	sizes, err := Reshape(t, schema, schema.SizePrefix)
	if err != nil {
		return nil, err
	}
	responders, err := Reshape(t, schema, schema.ResponderPrefix)
	if err != nil {
		return nil, err
	}
	nIdx, rIdx := sizes.Index(), responders.Index()

	var arms []Arm
	perStudy := make(map[string]int, len(studies))
	for _, cell := range treatments.Cells {
		if cell.Value == "" {
			continue
		}
		nv := nIdx[cell.Key]
		if nv == "" {
			continue
		}
		n, err := parseCount(nv)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidValue, err, "study %q arm %s: n", cell.Study, cell.Arm)
		}
		arm := Arm{
			Study:     cell.Study,
			ArmID:     cell.Arm,
			Treatment: cell.Value,
			Class:     c.Classify(cell.Value),
			N:         n,
		}
		if rv := rIdx[cell.Key]; rv != "" {
			r, err := parseCount(rv)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidValue, err, "study %q arm %s: r", cell.Study, cell.Arm)
			}
			arm.R, arm.HasR = r, true
		}
		arms = append(arms, arm)
		perStudy[cell.Study]++
	}

	if len(arms) == 0 {
		return nil, errors.New(errors.ErrCodeDegenerateInput, "%s: no valid arms", t.Name)
	}
	for _, s := range studies {
		if perStudy[s] == 0 {
			return nil, errors.New(errors.ErrCodeDegenerateInput, "%s: study %q has no arm with both treatment and n", t.Name, s)
		}
	}
	return arms, nil
}

// parseCount parses a non-negative integral count. Values such as "50.0"
// are accepted.
func parseCount(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, errors.New(errors.ErrCodeInvalidValue, "negative count %d", n)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidValue, "not a number: %q", s)
	}
	if f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, errors.New(errors.ErrCodeInvalidValue, "not a non-negative whole count: %q", s)
	}
	return int(f), nil
}
