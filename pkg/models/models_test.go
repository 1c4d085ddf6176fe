package models

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/nmanet/pkg/errors"
)

func TestRegistry(t *testing.T) {
	want := []string{
		"linear", "quadratic", "exponential", "emax", "emax-hill",
		"loglinear", "rcs-spline", "natural-spline", "nonparametric-monotone",
	}
	if diff := cmp.Diff(want, Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	r := Registry()
	r[0].Name = "changed"
	if Registry()[0].Name != "linear" {
		t.Error("Registry() must return a copy")
	}

	m, err := Lookup("emax-hill")
	if err != nil {
		t.Fatal(err)
	}
	if m.Function != "emax" || !strings.Contains(m.Options, "hill") {
		t.Errorf("Lookup(emax-hill) = %+v", m)
	}
	if _, err := Lookup("cubic"); !errors.Is(err, errors.ErrCodeUnknownModel) {
		t.Errorf("Lookup(cubic) error = %v", err)
	}
}

const fitsCSV = `model,dic,pd,resdev
emax,100.0,12.1,48.0
linear,104.0,8.0,50.2
quadratic,110.5,9.5,52.0
`

func TestReadFits(t *testing.T) {
	fits, err := ReadFits(strings.NewReader(fitsCSV))
	if err != nil {
		t.Fatalf("ReadFits() error: %v", err)
	}
	want := []Fit{
		{Model: "emax", DIC: 100, PD: 12.1, ResDev: 48},
		{Model: "linear", DIC: 104, PD: 8, ResDev: 50.2},
		{Model: "quadratic", DIC: 110.5, PD: 9.5, ResDev: 52},
	}
	if diff := cmp.Diff(want, fits); diff != "" {
		t.Errorf("ReadFits() mismatch (-want +got):\n%s", diff)
	}

	reordered := "resdev, DIC, model, pd, note\n48, 100, emax, 12.1, ok\n"
	fits, err = ReadFits(strings.NewReader(reordered))
	if err != nil || len(fits) != 1 || fits[0].DIC != 100 {
		t.Errorf("ReadFits(reordered) = %v, %v", fits, err)
	}
}

func TestReadFitsErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errors.Code
	}{
		{"empty", "", errors.ErrCodeInvalidInput},
		{"header only", "model,dic,pd,resdev\n", errors.ErrCodeInvalidInput},
		{"missing column", "model,dic,pd\nemax,1,2\n", errors.ErrCodeInvalidInput},
		{"unknown model", "model,dic,pd,resdev\ncubic,1,2,3\n", errors.ErrCodeUnknownModel},
		{"duplicate", "model,dic,pd,resdev\nemax,1,2,3\nemax,4,5,6\n", errors.ErrCodeInvalidInput},
		{"not a number", "model,dic,pd,resdev\nemax,x,2,3\n", errors.ErrCodeInvalidValue},
		{"nan", "model,dic,pd,resdev\nemax,NaN,2,3\n", errors.ErrCodeInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFits(strings.NewReader(tt.in))
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadFits() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	fits, _ := ReadFits(strings.NewReader(fitsCSV))
	got := Compare(fits)
	if len(got) != 3 {
		t.Fatalf("Compare() len = %d", len(got))
	}

	var names []string
	var sum float64
	for i, c := range got {
		names = append(names, c.Model)
		sum += c.Weight
		if c.Rank != i+1 {
			t.Errorf("%s rank = %d, want %d", c.Model, c.Rank, i+1)
		}
	}
	if diff := cmp.Diff([]string{"emax", "linear", "quadratic"}, names); diff != "" {
		t.Errorf("ranking mismatch (-want +got):\n%s", diff)
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("weights sum to %v", sum)
	}

	if got[1].DeltaDIC != 4 || !got[1].Preferred {
		t.Errorf("linear = %+v, want delta 4 and preferred", got[1])
	}
	if got[2].Preferred {
		t.Errorf("quadratic delta %v should not be preferred", got[2].DeltaDIC)
	}
	wantRatio := math.Exp(-2)
	if r := got[1].Weight / got[0].Weight; math.Abs(r-wantRatio) > 1e-12 {
		t.Errorf("weight ratio = %v, want %v", r, wantRatio)
	}
}

func TestCompareTiesKeepRegistryOrder(t *testing.T) {
	got := Compare([]Fit{
		{Model: "loglinear", DIC: 50},
		{Model: "exponential", DIC: 50},
		{Model: "linear", DIC: 50},
	})
	var names []string
	for _, c := range got {
		names = append(names, c.Model)
		if math.Abs(c.Weight-1.0/3) > 1e-12 {
			t.Errorf("%s weight = %v, want 1/3", c.Model, c.Weight)
		}
	}
	if diff := cmp.Diff([]string{"linear", "exponential", "loglinear"}, names); diff != "" {
		t.Errorf("tie order mismatch (-want +got):\n%s", diff)
	}
	if Compare(nil) != nil {
		t.Error("Compare(nil) should be nil")
	}
}

func TestMissing(t *testing.T) {
	fits, _ := ReadFits(strings.NewReader(fitsCSV))
	want := []string{"exponential", "emax-hill", "loglinear", "rcs-spline", "natural-spline", "nonparametric-monotone"}
	if diff := cmp.Diff(want, Missing(fits)); diff != "" {
		t.Errorf("Missing() mismatch (-want +got):\n%s", diff)
	}
}
