package regimen

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/nmanet/pkg/errors"
)

func TestClassify(t *testing.T) {
	c := DefaultClassifier()
	tests := []struct {
		label string
		want  Class
	}{
		{"mPSL", MPSL},
		{"mPSL_1mg", MPSL},
		{"DEX", DEX},
		{"DEX_20mg", DEX},
		{"HC", HC},
		{"HC_200", HC},
		{"Placebo", Placebo},
		{"Placebo_usual", Other}, // exact match only
		{"placebo", Other},       // case-sensitive
		{"mpsl", Other},
		{"PSL", Other},
		{"", Other},
	}

	for _, tt := range tests {
		if got := c.Classify(tt.label); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	c, err := NewClassifier([]Rule{
		{Match: MatchPrefix, Pattern: "HC", Class: HC},
		{Match: MatchPrefix, Pattern: "H", Class: DEX},
	})
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}
	if got := c.Classify("HCx"); got != HC {
		t.Errorf("Classify(HCx) = %v, want HC", got)
	}
	if got := c.Classify("Hx"); got != DEX {
		t.Errorf("Classify(Hx) = %v, want DEX", got)
	}
}

func TestNewClassifierInvalid(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
	}{
		{"bad match", Rule{Match: "regex", Pattern: "x"}},
		{"empty pattern", Rule{Match: MatchPrefix}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClassifier([]Rule{tt.rule})
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("NewClassifier() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestParseClass(t *testing.T) {
	for _, c := range Classes {
		got, err := ParseClass(c.String())
		if err != nil {
			t.Fatalf("ParseClass(%q): %v", c, err)
		}
		if got != c {
			t.Errorf("ParseClass(%q) = %v", c, got)
		}
	}
	if _, err := ParseClass("PSL"); err == nil {
		t.Error("ParseClass(PSL) should fail")
	}
}

func TestOrderingSort(t *testing.T) {
	o, err := NewOrdering([]string{"Placebo", "HC", "DEX", "mPSL"}, UnlistedLast)
	if err != nil {
		t.Fatalf("NewOrdering: %v", err)
	}

	ts := []string{"zeta", "mPSL", "alpha", "Placebo", "DEX"}
	o.Sort(ts)

	want := []string{"Placebo", "DEX", "mPSL", "alpha", "zeta"}
	if diff := cmp.Diff(want, ts); diff != "" {
		t.Errorf("Sort() mismatch (-want +got):\n%s", diff)
	}

	if r, ok := o.Rank("HC"); !ok || r != 1 {
		t.Errorf("Rank(HC) = %d, %v", r, ok)
	}
	if r, ok := o.Rank("alpha"); ok || r != 4 {
		t.Errorf("Rank(alpha) = %d, %v, want 4, false", r, ok)
	}
}

func TestOrderingCheck(t *testing.T) {
	last, _ := NewOrdering([]string{"Placebo"}, UnlistedLast)
	if err := last.Check([]string{"Placebo", "X"}); err != nil {
		t.Errorf("Check() under last policy = %v", err)
	}

	strict, _ := NewOrdering([]string{"Placebo"}, UnlistedError)
	if err := strict.Check([]string{"Placebo"}); err != nil {
		t.Errorf("Check() listed = %v", err)
	}
	err := strict.Check([]string{"Placebo", "Y", "X", "Y"})
	if !errors.Is(err, errors.ErrCodeUnrankedTreatment) {
		t.Fatalf("Check() error = %v, want UNRANKED_TREATMENT", err)
	}
	if got := errors.UserMessage(err); got != "treatments not in display order: X, Y" {
		t.Errorf("message = %q", got)
	}
}

func TestNewOrderingInvalid(t *testing.T) {
	if _, err := NewOrdering([]string{"A", "A"}, UnlistedLast); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("duplicate entry error = %v", err)
	}
	if _, err := NewOrdering(nil, "first"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("bad policy error = %v", err)
	}
	o, err := NewOrdering(nil, "")
	if err != nil {
		t.Fatalf("empty policy: %v", err)
	}
	if o.Policy() != UnlistedLast {
		t.Errorf("default policy = %q", o.Policy())
	}
}
