package report

import (
	"sort"

	"github.com/MatthewNewland/rcvplus/core"
)

// Document is the wire form of one tabulation, shared by the text, JSON and
// CBOR outputs and the archive.
type Document struct {
	RunID       string  `json:"run_id,omitempty" cbor:"run_id,omitempty"`
	Method      string  `json:"method" cbor:"method"`
	Seats       int     `json:"seats" cbor:"seats"`
	Fingerprint string  `json:"fingerprint,omitempty" cbor:"fingerprint,omitempty"`
	DurationNS  int64   `json:"duration_ns,omitempty" cbor:"duration_ns,omitempty"`
	Ballots     int     `json:"ballots,omitempty" cbor:"ballots,omitempty"`
	Threshold   float64 `json:"threshold,omitempty" cbor:"threshold,omitempty"`

	// Winners lists elected candidates in order of election, or parties
	// awarded at least one seat for apportionment
	Winners    []string `json:"winners" cbor:"winners"`
	Eliminated []string `json:"eliminated,omitempty" cbor:"eliminated,omitempty"`

	Rounds  []RoundView `json:"rounds,omitempty" cbor:"rounds,omitempty"`
	Parties []PartyView `json:"parties,omitempty" cbor:"parties,omitempty"`
	Awards  []AwardView `json:"awards,omitempty" cbor:"awards,omitempty"`
}

// TallyEntry is one row of a round's tally.
type TallyEntry struct {
	Candidate string  `json:"candidate" cbor:"candidate"`
	Votes     float64 `json:"votes" cbor:"votes"`
}

type RoundView struct {
	Number     int            `json:"number" cbor:"number"`
	Tally      []TallyEntry   `json:"tally" cbor:"tally"`
	Exhausted  int            `json:"exhausted" cbor:"exhausted"`
	Threshold  float64        `json:"threshold" cbor:"threshold"`
	Elected    string         `json:"elected,omitempty" cbor:"elected,omitempty"`
	Eliminated string         `json:"eliminated,omitempty" cbor:"eliminated,omitempty"`
	Surplus    float64        `json:"surplus,omitempty" cbor:"surplus,omitempty"`
	Pairwise   *core.Pairwise `json:"pairwise,omitempty" cbor:"pairwise,omitempty"`
	Backfilled bool           `json:"backfilled,omitempty" cbor:"backfilled,omitempty"`
}

type PartyView struct {
	Party string `json:"party" cbor:"party"`
	Votes int64  `json:"votes" cbor:"votes"`
	Seats int    `json:"seats" cbor:"seats"`
}

type AwardView struct {
	Seat     int     `json:"seat" cbor:"seat"`
	Party    string  `json:"party" cbor:"party"`
	Quotient float64 `json:"quotient" cbor:"quotient"`
}

// FromResult builds a document from a single-winner count.
func FromResult(res *core.Result) *Document {
	doc := &Document{
		Method:    res.Method,
		Seats:     1,
		Ballots:   len(res.Ballots),
		Threshold: res.Threshold,
		Winners:   []string{},
		Rounds:    roundViews(res.Rounds),
	}
	if res.Winner != "" {
		doc.Winners = append(doc.Winners, res.Winner)
	}
	for _, r := range res.Rounds {
		if r.Eliminated != "" {
			doc.Eliminated = append(doc.Eliminated, r.Eliminated)
		}
	}
	return doc
}

// FromSTV builds a document from a multi-seat count.
func FromSTV(res *core.STVResult) *Document {
	doc := &Document{
		Method:     core.MethodSTV,
		Seats:      res.Seats,
		Ballots:    len(res.Ballots),
		Winners:    append([]string{}, res.Winners...),
		Eliminated: res.Eliminated,
		Rounds:     roundViews(res.Rounds),
	}
	if len(res.Rounds) > 0 {
		doc.Threshold = res.Rounds[0].Threshold
	}
	return doc
}

// FromApportionment builds a document from a seat allocation. Parties keep
// input order; Winners lists the parties that won seats.
func FromApportionment(a *core.Apportionment) *Document {
	doc := &Document{
		Method:  core.MethodWebster,
		Seats:   len(a.Awards),
		Winners: []string{},
	}
	for _, pv := range a.Votes {
		seats := a.Seats[pv.Party]
		doc.Parties = append(doc.Parties, PartyView{Party: pv.Party, Votes: pv.Votes, Seats: seats})
		if seats > 0 {
			doc.Winners = append(doc.Winners, pv.Party)
		}
	}
	for _, award := range a.Awards {
		doc.Awards = append(doc.Awards, AwardView{
			Seat:     award.Seat,
			Party:    award.Party,
			Quotient: award.Quotients[award.Party],
		})
	}
	return doc
}

func roundViews(rounds []core.Round) []RoundView {
	views := make([]RoundView, 0, len(rounds))
	for i, r := range rounds {
		views = append(views, RoundView{
			Number:     i + 1,
			Tally:      sortedTally(r.Tally),
			Exhausted:  r.Exhausted,
			Threshold:  r.Threshold,
			Elected:    r.Elected,
			Eliminated: r.Eliminated,
			Surplus:    r.Surplus,
			Pairwise:   r.Pairwise,
			Backfilled: r.Backfilled,
		})
	}
	return views
}

// sortedTally orders a tally by votes descending, then by name.
func sortedTally(tally map[string]float64) []TallyEntry {
	entries := make([]TallyEntry, 0, len(tally))
	for c, v := range tally {
		entries = append(entries, TallyEntry{Candidate: c, Votes: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Votes != entries[j].Votes {
			return entries[i].Votes > entries[j].Votes
		}
		return entries[i].Candidate < entries[j].Candidate
	})
	return entries
}
