// Package models holds the dose-response model configurations of the
// analysis and ranks their fits.
//
// Fitting happens in an external Bayesian engine. This package fixes the
// nine configurations handed to it and compares the fit statistics it
// reports, by deviance information criterion (DIC):
//
//	fits, err := models.ReadFits(f)
//	for _, c := range models.Compare(fits) {
//	    fmt.Println(c.Rank, c.Model, c.DeltaDIC, c.Weight)
//	}
package models

import (
	"slices"

	"github.com/matzehuels/nmanet/pkg/errors"
)

// Method is the between-study effect assumption.
type Method string

const (
	Common Method = "common"
	Random Method = "random"
)

// Model is one dose-response configuration.
type Model struct {
	Name     string
	Function string // dose-response functional form
	Options  string // form parameters passed to the engine
	Method   Method
}

var registry = []Model{
	{Name: "linear", Function: "linear", Options: "", Method: Random},
	{Name: "quadratic", Function: "polynomial", Options: "degree=2", Method: Random},
	{Name: "exponential", Function: "exponential", Options: "", Method: Random},
	{Name: "emax", Function: "emax", Options: "emax=rel, ed50=rel", Method: Random},
	{Name: "emax-hill", Function: "emax", Options: "emax=rel, ed50=rel, hill=common", Method: Random},
	{Name: "loglinear", Function: "loglinear", Options: "", Method: Random},
	{Name: "rcs-spline", Function: "spline", Options: "type=rcs, knots=3", Method: Random},
	{Name: "natural-spline", Function: "spline", Options: "type=ns, knots=2", Method: Random},
	{Name: "nonparametric-monotone", Function: "nonparametric", Options: "direction=increasing", Method: Common},
}

// Registry returns the configurations in their fixed order.
func Registry() []Model {
	return slices.Clone(registry)
}

// Names returns the registry names in order.
func Names() []string {
	names := make([]string, len(registry))
	for i, m := range registry {
		names[i] = m.Name
	}
	return names
}

// Lookup returns the model called name.
func Lookup(name string) (Model, error) {
	if i := index(name); i >= 0 {
		return registry[i], nil
	}
	return Model{}, errors.New(errors.ErrCodeUnknownModel, "unknown model %q", name)
}

func index(name string) int {
	return slices.IndexFunc(registry, func(m Model) bool { return m.Name == name })
}
