package trial

import (
	"regexp"
	"strings"

	"github.com/matzehuels/nmanet/pkg/errors"
)

// armSuffixRe matches the arm index left after stripping a column prefix.
// R mangles "t[1]" into "t..1.", so a trailing dot is accepted.
var armSuffixRe = regexp.MustCompile(`^([0-9]+)\.?$`)

// Key identifies one arm of one study.
type Key struct {
	Study string
	Arm   string
}

// Cell is one (study, arm, value) observation of a long table.
// Value is empty when the source cell was missing.
type Cell struct {
	Key
	Value string
}

// Long is a pivot of one column group, in row-major order.
type Long struct {
	Prefix string
	Cells  []Cell
}

// Index returns the cells keyed by (study, arm).
func (l Long) Index() map[Key]string {
	idx := make(map[Key]string, len(l.Cells))
	for _, c := range l.Cells {
		idx[c.Key] = c.Value
	}
	return idx
}

// ArmColumn parses a column name of the prefix group and returns its arm id.
// ok is false when the column does not belong to the group. A column that
// starts with prefix but lacks a numeric arm suffix is a schema error.
func ArmColumn(name, prefix string) (arm string, ok bool, err error) {
	rest, found := strings.CutPrefix(name, prefix)
	if !found {
		return "", false, nil
	}
	m := armSuffixRe.FindStringSubmatch(rest)
	if m == nil {
		return "", true, errors.New(errors.ErrCodeInvalidSchema, "column %q: expected %s<arm> with a numeric arm index", name, prefix)
	}
	return m[1], true, nil
}

// Reshape pivots the columns of t starting with prefix into a long table
// keyed by (study, arm). A prefix with no matching columns is a schema error.
func Reshape(t *Table, schema Schema, prefix string) (Long, error) {
	studies, err := t.Studies(schema)
	if err != nil {
		return Long{}, err
	}

	type armCol struct {
		idx int
		arm string
	}
	var cols []armCol
	seen := make(map[string]string)
	for i, h := range t.Header {
		arm, ok, err := ArmColumn(h, prefix)
		if err != nil {
			return Long{}, err
		}
		if !ok {
			continue
		}
		if prev, dup := seen[arm]; dup {
			return Long{}, errors.New(errors.ErrCodeInvalidSchema, "columns %q and %q both map to arm %s", prev, h, arm)
		}
		seen[arm] = h
		cols = append(cols, armCol{idx: i, arm: arm})
	}
	if len(cols) == 0 {
		return Long{}, errors.New(errors.ErrCodeInvalidSchema, "%s: no columns with prefix %q", t.Name, prefix)
	}

	out := Long{Prefix: prefix, Cells: make([]Cell, 0, len(cols)*len(t.Rows))}
	keys := make(map[Key]bool, cap(out.Cells))
	for r, row := range t.Rows {
		for _, c := range cols {
			k := Key{Study: studies[r], Arm: c.arm}
			if keys[k] {
				return Long{}, errors.New(errors.ErrCodeInvalidSchema, "%s: duplicate arm %s in study %q", t.Name, c.arm, k.Study)
			}
			keys[k] = true
			v := strings.TrimSpace(row[c.idx])
			if isMissing(v) {
				v = ""
			}
			out.Cells = append(out.Cells, Cell{Key: k, Value: v})
		}
	}
	return out, nil
}
