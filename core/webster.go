package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Webster allocates seats by the Sainte-Laguë highest-averages method: each
// seat goes to the party with the greatest votes/(2*seats+1). Ties go to the
// party first in the tie order; a nil tie breaker means the order of votes.
func Webster(votes []PartyVotes, seats int, tb TieBreaker) (*Apportionment, error) {
	if seats < 1 {
		return nil, fmt.Errorf("%s: %w: got %d", MethodWebster, ErrInvalidSeats, seats)
	}
	if len(votes) == 0 {
		return nil, fmt.Errorf("%s: %w: no parties", MethodWebster, ErrEmptyElectorate)
	}

	parties := make([]Candidate, 0, len(votes))
	seen := make(map[Candidate]struct{}, len(votes))
	for _, pv := range votes {
		if pv.Votes < 0 {
			return nil, fmt.Errorf("%s: %w: party %q has negative votes", MethodWebster, ErrMalformedBallot, pv.Party)
		}
		if _, dup := seen[pv.Party]; dup {
			return nil, fmt.Errorf("%s: %w: party %q listed twice", MethodWebster, ErrMalformedBallot, pv.Party)
		}
		seen[pv.Party] = struct{}{}
		parties = append(parties, pv.Party)
	}
	if tb == nil {
		tb = NewTieOrder(TieInputOrder, parties)
	}

	result := &Apportionment{
		Votes:  append([]PartyVotes(nil), votes...),
		Seats:  make(map[Candidate]int, len(votes)),
		Awards: make([]SeatAward, 0, seats),
	}
	for _, p := range parties {
		result.Seats[p] = 0
	}

	for seat := 1; seat <= seats; seat++ {
		quotients := make(map[Candidate]decimal.Decimal, len(votes))
		for _, pv := range votes {
			quotients[pv.Party] = WebsterQuotient(pv.Votes, result.Seats[pv.Party])
		}

		winner := rankCandidates(quotients, tb)[0]
		result.Seats[winner]++

		award := SeatAward{
			Seat:      seat,
			Party:     winner,
			Quotients: make(map[Candidate]float64, len(quotients)),
		}
		for p, q := range quotients {
			award.Quotients[p], _ = q.Float64()
		}
		result.Awards = append(result.Awards, award)
	}

	return result, nil
}

// WebsterQuotient returns votes / (2*seats + 1).
func WebsterQuotient(votes int64, seats int) decimal.Decimal {
	return decimal.NewFromInt(votes).Div(decimal.NewFromInt(int64(2*seats + 1)))
}
