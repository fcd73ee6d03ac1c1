package core

// PairwiseCompare counts, over all ballots, how many rank a strictly ahead of
// b and how many rank b strictly ahead of a. Ballots that do not rank both
// credit neither.
func PairwiseCompare(ballots Ballots, a, b Candidate) Pairwise {
	p := Pairwise{
		Candidates: [2]Candidate{a, b},
		Votes:      map[Candidate]int{a: 0, b: 0},
	}
	for i := range ballots {
		if ballots[i].Prefers(a, b) {
			p.Votes[a]++
		} else if ballots[i].Prefers(b, a) {
			p.Votes[b]++
		}
	}
	return p
}

// bottomTwoLoser runs the bottom two candidates head to head.
// A pairwise tie goes against the one with fewer top-choice votes this round,
// then against the one later in the tie order.
func bottomTwoLoser(bs Ballots, c count, ranked []Candidate, tb TieBreaker) (Candidate, *Pairwise) {
	second, lowest := ranked[len(ranked)-2], ranked[len(ranked)-1]
	p := PairwiseCompare(bs, second, lowest)

	switch {
	case p.Votes[second] < p.Votes[lowest]:
		return second, &p
	case p.Votes[lowest] < p.Votes[second]:
		return lowest, &p
	}

	switch {
	case c.votes[second].LessThan(c.votes[lowest]):
		return second, &p
	case c.votes[lowest].LessThan(c.votes[second]):
		return lowest, &p
	}

	if tb.Before(second, lowest) {
		return lowest, &p
	}
	return second, &p
}
