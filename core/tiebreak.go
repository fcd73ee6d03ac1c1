package core

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// TieBreaker resolves candidates that share the value a decision is made on.
// This interface lets callers fix the order for testing or policy reasons.
type TieBreaker interface {
	// Before reports whether a takes precedence over b. Precedence wins ties
	// for a maximum and survives ties for a minimum.
	Before(a, b Candidate) bool
}

// TiePolicy names a way of building a TieOrder.
type TiePolicy string

const (
	// TieInputOrder gives precedence to the candidate that appears first in the input
	TieInputOrder TiePolicy = "input"

	// TieLexical gives precedence to the lexically smaller identifier
	TieLexical TiePolicy = "lexical"
)

// ParseTiePolicy maps a configuration label to a policy. Empty means TieInputOrder.
func ParseTiePolicy(s string) (TiePolicy, error) {
	switch TiePolicy(s) {
	case "", TieInputOrder:
		return TieInputOrder, nil
	case TieLexical:
		return TieLexical, nil
	}
	return "", fmt.Errorf("unknown tie-break policy %q", s)
}

// TieOrder is a total order over a fixed candidate list.
type TieOrder struct {
	rank map[Candidate]int
}

// NewTieOrder builds the order for candidates listed in input order.
func NewTieOrder(policy TiePolicy, candidates []Candidate) *TieOrder {
	ordered := make([]Candidate, len(candidates))
	copy(ordered, candidates)
	if policy == TieLexical {
		sort.Strings(ordered)
	}

	o := &TieOrder{rank: make(map[Candidate]int, len(ordered))}
	for i, c := range ordered {
		if _, ok := o.rank[c]; !ok {
			o.rank[c] = i
		}
	}
	return o
}

// InputOrder is the default TieBreaker: first appearance across ballots in input order.
func InputOrder(ballots Ballots) *TieOrder {
	return NewTieOrder(TieInputOrder, ballots.Candidates())
}

// Before implements TieBreaker. Unknown candidates come after known ones,
// lexically among themselves.
func (o *TieOrder) Before(a, b Candidate) bool {
	ra, okA := o.rank[a]
	rb, okB := o.rank[b]
	switch {
	case okA && okB:
		return ra < rb
	case okA != okB:
		return okA
	default:
		return a < b
	}
}

// rankCandidates orders candidates by votes descending. Runs of equal votes
// are ordered by the tie breaker, so the first entry is the leader and the
// last is the candidate to eliminate.
func rankCandidates(votes map[Candidate]decimal.Decimal, tb TieBreaker) []Candidate {
	entries := make([]Candidate, 0, len(votes))
	for c := range votes {
		entries = append(entries, c)
	}

	sort.Slice(entries, func(i, j int) bool {
		return votes[entries[i]].GreaterThan(votes[entries[j]])
	})

	// Resolve each group of equal tallies with the tie breaker
	i := 0
	for i < len(entries) {
		v := votes[entries[i]]
		j := i + 1
		for j < len(entries) && votes[entries[j]].Equal(v) {
			j++
		}

		if j-i > 1 {
			group := entries[i:j]
			sort.SliceStable(group, func(x, y int) bool {
				return tb.Before(group[x], group[y])
			})
		}

		i = j
	}

	return entries
}
