// Package regimen classifies treatment labels into drug classes and orders
// them for display.
//
// Classification happens once, when arms are ingested, and the resulting
// [Class] travels with every arm, aggregate and node. Renderers read the tag;
// they never inspect the label again.
//
// Display order comes from an explicit [Ordering] table built from a
// configured priority list. Treatments missing from the list are handled by
// an explicit [Unlisted] policy.
package regimen

import (
	"fmt"
	"strings"

	"github.com/matzehuels/nmanet/pkg/errors"
)

// Class is the drug class of a treatment.
type Class int

const (
	// Other is the catch-all class for labels matching no rule.
	Other Class = iota
	MPSL
	DEX
	HC
	Placebo
)

var classNames = map[Class]string{
	Other:   "Other",
	MPSL:    "mPSL",
	DEX:     "DEX",
	HC:      "HC",
	Placebo: "Placebo",
}

// Classes lists every class in legend order.
var Classes = []Class{MPSL, DEX, HC, Placebo, Other}

func (c Class) String() string {
	if s, ok := classNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

// ParseClass returns the class with the given display name.
func ParseClass(s string) (Class, error) {
	for c, name := range classNames {
		if name == s {
			return c, nil
		}
	}
	return Other, errors.New(errors.ErrCodeInvalidConfig, "unknown class %q", s)
}

// Match selects how a [Rule] compares its pattern with a label.
type Match string

const (
	MatchPrefix Match = "prefix"
	MatchExact  Match = "exact"
)

// Rule assigns Class to labels matching Pattern.
type Rule struct {
	Match   Match
	Pattern string
	Class   Class
}

func (r Rule) matches(label string) bool {
	switch r.Match {
	case MatchExact:
		return label == r.Pattern
	case MatchPrefix:
		return strings.HasPrefix(label, r.Pattern)
	}
	return false
}

// DefaultRules are the corticosteroid classes in evaluation order.
var DefaultRules = []Rule{
	{Match: MatchPrefix, Pattern: "mPSL", Class: MPSL},
	{Match: MatchPrefix, Pattern: "DEX", Class: DEX},
	{Match: MatchPrefix, Pattern: "HC", Class: HC},
	{Match: MatchExact, Pattern: "Placebo", Class: Placebo},
}

// Classifier assigns classes by testing rules in order; the first match wins.
// Matching is case-sensitive. Labels matching nothing are [Other].
type Classifier struct {
	rules []Rule
}

// NewClassifier validates rules and returns a classifier over them.
func NewClassifier(rules []Rule) (*Classifier, error) {
	for i, r := range rules {
		if r.Match != MatchPrefix && r.Match != MatchExact {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "rule %d: unknown match kind %q", i, r.Match)
		}
		if r.Pattern == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "rule %d: empty pattern", i)
		}
	}
	return &Classifier{rules: append([]Rule(nil), rules...)}, nil
}

// DefaultClassifier returns a classifier over [DefaultRules].
func DefaultClassifier() *Classifier {
	return &Classifier{rules: DefaultRules}
}

// Classify returns the class of label.
func (c *Classifier) Classify(label string) Class {
	for _, r := range c.rules {
		if r.matches(label) {
			return r.Class
		}
	}
	return Other
}
