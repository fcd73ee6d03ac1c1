package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// eliminator picks the candidate to drop from a round's ranked tally.
// ranked is ordered by votes descending with ties already resolved.
type eliminator func(bs Ballots, c count, ranked []Candidate, tb TieBreaker) (Candidate, *Pairwise)

// IRV runs instant-runoff voting, eliminating the lowest tally each round.
// ballots is mutated in place; pass a Clone to keep the input.
// A nil tie breaker means InputOrder(ballots).
func IRV(ballots Ballots, tb TieBreaker) (*Result, error) {
	return runoff(MethodIRV, ballots, tb, lowestLoser)
}

// BTRIRV runs bottom-two-runoff IRV: each round the two lowest tallies meet
// head to head and the one fewer ballots prefer is eliminated.
func BTRIRV(ballots Ballots, tb TieBreaker) (*Result, error) {
	return runoff(MethodBTRIRV, ballots, tb, bottomTwoLoser)
}

// runoff is the single-winner elimination loop shared by IRV and BTR-IRV.
//
// Processing flow per round:
//  1. Tally top remaining choices, one vote per ballot
//  2. Elect if one candidate is left or a tally exceeds floor(N/2)
//  3. Otherwise eliminate and strip the loser from every ballot
func runoff(method string, ballots Ballots, tb TieBreaker, eliminate eliminator) (*Result, error) {
	if err := ballots.prepare(); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	if tb == nil {
		tb = InputOrder(ballots)
	}

	threshold := decimal.NewFromInt(int64(len(ballots) / 2))
	result := &Result{Method: method, Ballots: ballots}
	result.Threshold, _ = threshold.Float64()

	for {
		c := tallyBallots(ballots, false)
		if len(c.votes) == 0 {
			return nil, fmt.Errorf("%s: %w: no ballot ranks a candidate", method, ErrEmptyElectorate)
		}

		round := newRound(c, threshold, ballots)
		ranked := rankCandidates(c.votes, tb)

		if len(ranked) == 1 || exceeds(c.votes[ranked[0]], threshold) {
			round.Elected = ranked[0]
			result.Rounds = append(result.Rounds, round)
			result.Winner = ranked[0]
			return result, nil
		}

		loser, pairwise := eliminate(ballots, c, ranked, tb)
		ballots.Remove(loser)

		round.Eliminated = loser
		round.Pairwise = pairwise
		result.Rounds = append(result.Rounds, round)
	}
}

func lowestLoser(_ Ballots, _ count, ranked []Candidate, _ TieBreaker) (Candidate, *Pairwise) {
	return ranked[len(ranked)-1], nil
}
