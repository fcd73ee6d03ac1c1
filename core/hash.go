package core

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
)

// ComputeBallotsHash fingerprints a ballot set so runs over the same input can
// be recognised in logs and the archive. Compute it before counting, since
// counting strips rankings.
//
// Formula: SHA256(line_1 + "\n" + line_2 + ...)
// where line_i = rank1 + ">" + rank2 + ... + "|" + sprintf("%.6f", weight)
//
// A zero weight is hashed as 1, matching how it is counted.
func ComputeBallotsHash(ballots Ballots) string {
	var sb strings.Builder
	for i, b := range ballots {
		if i > 0 {
			sb.WriteByte('\n')
		}
		weight := b.Weight
		if weight == 0 {
			weight = 1
		}
		fmt.Fprintf(&sb, "%s|%.6f", strings.Join(b.Ranking, ">"), weight)
	}
	hash := sha256.Sum256([]byte(sb.String()))
	return fmt.Sprintf("%x", hash)
}

// ComputePartyVotesHash fingerprints apportionment input.
//
// Formula: SHA256(sorted_pairs)
// where sorted_pairs = "party1:votes1|party2:votes2|..." (sorted by party name)
func ComputePartyVotesHash(votes []PartyVotes) string {
	sorted := append([]PartyVotes(nil), votes...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Party < sorted[j].Party
	})

	pairs := make([]string, 0, len(sorted))
	for _, pv := range sorted {
		pairs = append(pairs, fmt.Sprintf("%s:%d", pv.Party, pv.Votes))
	}
	hash := sha256.Sum256([]byte(strings.Join(pairs, "|")))
	return fmt.Sprintf("%x", hash)
}
