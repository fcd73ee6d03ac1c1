package core

import (
	"github.com/shopspring/decimal"
)

const weightPrecision int32 = 9 // decimal places kept when comparing weighted tallies

// count is one pass over the ballot arena.
type count struct {
	votes     map[Candidate]decimal.Decimal
	exhausted int
}

// tallyBallots credits each ballot's top remaining choice. Unweighted counts
// credit one vote per ballot; weighted counts credit the ballot's weight.
func tallyBallots(bs Ballots, weighted bool) count {
	c := count{votes: make(map[Candidate]decimal.Decimal)}
	one := decimal.NewFromInt(1)

	for i := range bs {
		top, ok := bs[i].TopChoice()
		if !ok {
			c.exhausted++
			continue
		}
		w := one
		if weighted {
			w = decimal.NewFromFloat(bs[i].Weight)
		}
		c.votes[top] = c.votes[top].Add(w)
	}

	// Transfer values leave long fractions; equal tallies must compare equal
	if weighted {
		for cand, v := range c.votes {
			c.votes[cand] = v.Round(weightPrecision)
		}
	}

	return c
}

func (c count) floats() map[Candidate]float64 {
	out := make(map[Candidate]float64, len(c.votes))
	for cand, v := range c.votes {
		out[cand], _ = v.Float64()
	}
	return out
}

// exceeds reports whether tally is strictly greater than threshold.
// Both sides are rounded to weightPrecision before comparing.
func exceeds(tally, threshold decimal.Decimal) bool {
	return tally.Round(weightPrecision).GreaterThan(threshold.Round(weightPrecision))
}

// newRound snapshots the count and the ballots that produced it.
func newRound(c count, threshold decimal.Decimal, bs Ballots) Round {
	t, _ := threshold.Float64()
	return Round{
		Tally:     c.floats(),
		Exhausted: c.exhausted,
		Threshold: t,
		Ballots:   bs.Clone(),
	}
}
