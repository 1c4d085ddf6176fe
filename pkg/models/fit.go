package models

import (
	"encoding/csv"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/nmanet/pkg/errors"
)

// Fit holds the fit statistics reported for one model.
type Fit struct {
	Model  string
	DIC    float64
	PD     float64 // effective number of parameters
	ResDev float64 // residual deviance
}

var fitColumns = []string{"model", "dic", "pd", "resdev"}

// ReadFits reads fit statistics from CSV. The header must name the columns
// model, dic, pd and resdev in any order; other columns are ignored.
func ReadFits(r io.Reader) ([]Fit, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read fits")
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "fits: empty file")
	}

	col := make(map[string]int)
	for i, h := range records[0] {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range fitColumns {
		if _, ok := col[c]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "fits: missing column %q", c)
		}
	}

	var fits []Fit
	seen := make(map[string]bool)
	for line, rec := range records[1:] {
		name := strings.TrimSpace(rec[col["model"]])
		if _, err := Lookup(name); err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "fits: model %q listed twice", name)
		}
		seen[name] = true

		f := Fit{Model: name}
		for _, v := range []struct {
			column string
			dst    *float64
		}{{"dic", &f.DIC}, {"pd", &f.PD}, {"resdev", &f.ResDev}} {
			x, err := strconv.ParseFloat(strings.TrimSpace(rec[col[v.column]]), 64)
			if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
				return nil, errors.New(errors.ErrCodeInvalidValue, "fits line %d: %s is not a finite number", line+2, v.column)
			}
			*v.dst = x
		}
		fits = append(fits, f)
	}
	if len(fits) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "fits: no rows")
	}
	return fits, nil
}

// Missing returns the registry models without a fit, in registry order.
func Missing(fits []Fit) []string {
	var out []string
	for _, m := range registry {
		if !slices.ContainsFunc(fits, func(f Fit) bool { return f.Model == m.Name }) {
			out = append(out, m.Name)
		}
	}
	return out
}
