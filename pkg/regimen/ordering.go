package regimen

import (
	"slices"
	"strings"

	"github.com/matzehuels/nmanet/pkg/errors"
)

// Unlisted is the policy for treatments absent from the priority list.
type Unlisted string

const (
	// UnlistedLast sorts unlisted treatments after every listed one,
	// lexicographically among themselves.
	UnlistedLast Unlisted = "last"
	// UnlistedError rejects unlisted treatments.
	UnlistedError Unlisted = "error"
)

// Ordering maps treatments to display ranks.
// The zero value is not usable; use [NewOrdering].
type Ordering struct {
	ranks  map[string]int
	policy Unlisted
}

// NewOrdering builds an ordering from a priority list. Rank 0 is the first
// entry. Duplicate entries are rejected.
func NewOrdering(priority []string, policy Unlisted) (*Ordering, error) {
	if policy == "" {
		policy = UnlistedLast
	}
	if policy != UnlistedLast && policy != UnlistedError {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown unlisted policy %q (must be 'last' or 'error')", policy)
	}
	ranks := make(map[string]int, len(priority))
	for i, t := range priority {
		if _, dup := ranks[t]; dup {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "treatment %q listed twice in order", t)
		}
		ranks[t] = i
	}
	return &Ordering{ranks: ranks, policy: policy}, nil
}

// Policy returns the unlisted policy.
func (o *Ordering) Policy() Unlisted { return o.policy }

// Len returns the number of listed treatments.
func (o *Ordering) Len() int { return len(o.ranks) }

// Rank returns the listed rank of t. Unlisted treatments report ok=false and
// a rank equal to Len, so they sort after every listed treatment.
func (o *Ordering) Rank(t string) (rank int, ok bool) {
	if r, ok := o.ranks[t]; ok {
		return r, true
	}
	return len(o.ranks), false
}

// Compare orders a before b by rank, then lexicographically.
func (o *Ordering) Compare(a, b string) int {
	ra, _ := o.Rank(a)
	rb, _ := o.Rank(b)
	if ra != rb {
		return ra - rb
	}
	return strings.Compare(a, b)
}

// Check applies the unlisted policy to ts. Under [UnlistedError] it returns
// an error naming every unlisted treatment.
func (o *Ordering) Check(ts []string) error {
	if o.policy != UnlistedError {
		return nil
	}
	var missing []string
	for _, t := range ts {
		if _, ok := o.ranks[t]; !ok {
			missing = append(missing, t)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	missing = slices.Compact(missing)
	return errors.New(errors.ErrCodeUnrankedTreatment, "treatments not in display order: %s", strings.Join(missing, ", "))
}

// Sort orders ts in place by [Ordering.Compare].
func (o *Ordering) Sort(ts []string) {
	slices.SortFunc(ts, o.Compare)
}
