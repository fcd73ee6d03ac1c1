package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// STV fills seats by single transferable vote with fractional surplus
// transfer. ballots is mutated in place, weights included.
// A nil tie breaker means InputOrder(ballots).
//
// Processing flow per round:
//  1. Tally top remaining choices by ballot weight
//  2. Recompute the quota as floor((N - exhausted) / (seats + 1))
//  3. A lone remaining candidate is elected regardless of quota
//  4. Else the leader is elected if over quota and its surplus transferred
//  5. Else the lowest is eliminated and logged
//
// When every ballot is exhausted with seats still open, the remaining seats
// go to eliminated candidates, most recently eliminated first.
func STV(ballots Ballots, seats int, tb TieBreaker) (*STVResult, error) {
	if seats < 1 {
		return nil, fmt.Errorf("%s: %w: got %d", MethodSTV, ErrInvalidSeats, seats)
	}
	if err := ballots.prepare(); err != nil {
		return nil, fmt.Errorf("%s: %w", MethodSTV, err)
	}
	if tb == nil {
		tb = InputOrder(ballots)
	}

	result := &STVResult{
		Seats:      seats,
		Winners:    make([]Candidate, 0, seats),
		Eliminated: make([]Candidate, 0),
		Ballots:    ballots,
	}

	for len(result.Winners) < seats {
		c := tallyBallots(ballots, true)
		quota := decimal.NewFromInt(int64((len(ballots) - c.exhausted) / (seats + 1)))
		round := newRound(c, quota, ballots)

		switch len(c.votes) {
		case 0:
			if len(result.Rounds) == 0 {
				return nil, fmt.Errorf("%s: %w: no ballot ranks a candidate", MethodSTV, ErrEmptyElectorate)
			}
			result.backfill(round)
			return result, nil

		case 1:
			ranked := rankCandidates(c.votes, tb)
			result.elect(ranked[0], round)

		default:
			ranked := rankCandidates(c.votes, tb)
			leader := ranked[0]
			if exceeds(c.votes[leader], quota) {
				TransferSurplus(ballots, leader, c.votes[leader], quota)
				round.Surplus, _ = c.votes[leader].Sub(quota).Float64()
				result.elect(leader, round)
				continue
			}

			loser := ranked[len(ranked)-1]
			ballots.Remove(loser)
			round.Eliminated = loser
			result.Eliminated = append(result.Eliminated, loser)
			result.Rounds = append(result.Rounds, round)
		}
	}

	return result, nil
}

func (r *STVResult) elect(c Candidate, round Round) {
	r.Ballots.Remove(c)
	round.Elected = c
	r.Winners = append(r.Winners, c)
	r.Rounds = append(r.Rounds, round)
}

// backfill fills open seats from the eliminated log, newest first, recording
// one round per seat. Seats stay open once the log runs out.
func (r *STVResult) backfill(last Round) {
	next := len(r.Eliminated) - 1
	for len(r.Winners) < r.Seats && next >= 0 {
		round := last
		round.Tally = map[Candidate]float64{}
		round.Elected = r.Eliminated[next]
		round.Backfilled = true
		round.Ballots = last.Ballots.Clone()

		r.Winners = append(r.Winners, round.Elected)
		r.Rounds = append(r.Rounds, round)
		next--
	}
}
