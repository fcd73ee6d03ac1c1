package core

import (
	"github.com/shopspring/decimal"
)

// TransferSurplus scales every ballot whose top choice is elected by
// surplus/tally, where surplus = tally - quota, and returns that transfer
// value. The candidate is not stripped here; the caller does that once the
// weights are settled so the next preference carries the reduced weight.
func TransferSurplus(ballots Ballots, elected Candidate, tally, quota decimal.Decimal) decimal.Decimal {
	if !tally.IsPositive() {
		return decimal.Zero
	}
	surplus := tally.Sub(quota)
	if surplus.IsNegative() {
		surplus = decimal.Zero
	}

	for i := range ballots {
		top, ok := ballots[i].TopChoice()
		if !ok || top != elected {
			continue
		}

		// Multiply before dividing so a unit weight keeps full precision
		weight := decimal.NewFromFloat(ballots[i].Weight)
		ballots[i].Weight, _ = weight.Mul(surplus).Div(tally).Float64()
	}

	return surplus.Div(tally)
}
