package core

import (
	"fmt"
	"math"
	"slices"
)

// NewBallot returns a unit-weight ballot ranking the given candidates.
func NewBallot(ranking ...Candidate) Ballot {
	return Ballot{Ranking: slices.Clone(ranking), Weight: 1}
}

// TopChoice returns the highest remaining preference, false if the ballot is exhausted.
func (b Ballot) TopChoice() (Candidate, bool) {
	if len(b.Ranking) == 0 {
		return "", false
	}
	return b.Ranking[0], true
}

// Exhausted reports whether every ranked candidate has been stripped.
func (b Ballot) Exhausted() bool {
	return len(b.Ranking) == 0
}

// Prefers reports whether the ballot ranks first strictly ahead of second.
// A ballot that does not rank both expresses no preference between them.
func (b Ballot) Prefers(first, second Candidate) bool {
	i := slices.Index(b.Ranking, first)
	j := slices.Index(b.Ranking, second)
	if i < 0 || j < 0 {
		return false
	}
	return i < j
}

// Remove strips c from the ranking. Removing an absent candidate is a no-op.
func (b *Ballot) Remove(c Candidate) bool {
	i := slices.Index(b.Ranking, c)
	if i < 0 {
		return false
	}
	b.Ranking = slices.Delete(b.Ranking, i, i+1)
	return true
}

func (b Ballot) Clone() Ballot {
	return Ballot{Ranking: slices.Clone(b.Ranking), Weight: b.Weight}
}

func (b Ballot) validate() error {
	if math.IsNaN(b.Weight) || math.IsInf(b.Weight, 0) || b.Weight < 0 {
		return fmt.Errorf("%w: invalid weight %v", ErrMalformedBallot, b.Weight)
	}
	seen := make(map[Candidate]struct{}, len(b.Ranking))
	for _, c := range b.Ranking {
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: candidate %q ranked twice", ErrMalformedBallot, c)
		}
		seen[c] = struct{}{}
	}
	return nil
}

// Validate checks that there is at least one ballot and that no ranking lists
// a candidate twice. A zero weight is accepted and read as the default of 1.
func (bs Ballots) Validate() error {
	if len(bs) == 0 {
		return ErrEmptyElectorate
	}
	for i := range bs {
		if err := bs[i].validate(); err != nil {
			return fmt.Errorf("ballot %d: %w", i, err)
		}
	}
	return nil
}

// Clone returns a deep copy that shares no rankings with bs.
func (bs Ballots) Clone() Ballots {
	if bs == nil {
		return nil
	}
	out := make(Ballots, len(bs))
	for i := range bs {
		out[i] = bs[i].Clone()
	}
	return out
}

// Remove strips c from every ballot.
func (bs Ballots) Remove(c Candidate) {
	for i := range bs {
		bs[i].Remove(c)
	}
}

// Candidates lists every ranked candidate in order of first appearance.
func (bs Ballots) Candidates() []Candidate {
	var out []Candidate
	seen := make(map[Candidate]struct{})
	for _, b := range bs {
		for _, c := range b.Ranking {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				out = append(out, c)
			}
		}
	}
	return out
}

// TotalWeight sums the weight of every ballot, exhausted or not.
func (bs Ballots) TotalWeight() float64 {
	total := 0.0
	for _, b := range bs {
		total += b.Weight
	}
	return total
}

// prepare validates bs and fills in default weights before a count mutates it.
func (bs Ballots) prepare() error {
	if err := bs.Validate(); err != nil {
		return err
	}
	for i := range bs {
		if bs[i].Weight == 0 {
			bs[i].Weight = 1
		}
	}
	return nil
}
