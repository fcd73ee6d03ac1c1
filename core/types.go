package core

// Candidate identifies a candidate or party. Only identity and ordering matter.
type Candidate = string

// Ballot is one voter's ranking, most-preferred first, plus the weight it carries.
// Tabulation strips candidates from Ranking in place; a ballot with an empty
// ranking is exhausted but stays in its Ballots arena.
type Ballot struct {
	Ranking []Candidate `json:"ranking" yaml:"ranking" cbor:"ranking"`
	Weight  float64     `json:"weight" yaml:"weight" cbor:"weight"`
}

// Ballots is the arena the counting methods mutate. Ballots are addressed by
// index and never removed, so len(Ballots) is fixed for a whole run.
type Ballots []Ballot

// Pairwise is the head-to-head between the two lowest-tallied candidates of a
// BTR-IRV round.
type Pairwise struct {
	// Candidates holds the second-lowest then the lowest candidate by tally
	Candidates [2]Candidate `json:"candidates"`

	// Votes maps each of the two to the ballots ranking it ahead of the other
	Votes map[Candidate]int `json:"votes"`
}

// Round is an immutable snapshot of one tabulation step.
type Round struct {
	// Tally maps each candidate with at least one top-choice vote to its weighted count
	Tally map[Candidate]float64 `json:"tally"`

	// Exhausted counts ballots with no remaining choice at this step
	Exhausted int `json:"exhausted"`

	// Threshold is the value a tally had to exceed this round (majority or quota)
	Threshold float64 `json:"threshold"`

	Elected    Candidate `json:"elected,omitempty"`
	Eliminated Candidate `json:"eliminated,omitempty"`

	// Surplus is the weight above quota passed on when an STV candidate is
	// elected by quota; zero otherwise
	Surplus float64 `json:"surplus,omitempty"`

	// Pairwise is set only for BTR-IRV eliminations
	Pairwise *Pairwise `json:"pairwise,omitempty"`

	// Backfilled marks an STV seat filled from the eliminated log after every
	// remaining ballot was exhausted
	Backfilled bool `json:"backfilled,omitempty"`

	// Ballots is a copy of the ballot arena as it was tallied this round
	Ballots Ballots `json:"-"`
}

// Result is the outcome of a single-winner method.
type Result struct {
	Method    string  `json:"method"`
	Winner    string  `json:"winner"`
	Threshold float64 `json:"threshold"`
	Rounds    []Round `json:"rounds"`
	Ballots   Ballots `json:"-"`
}

// STVResult is the outcome of a multi-seat STV count.
type STVResult struct {
	Seats int `json:"seats"`

	// Winners lists the elected candidates in the order they were elected
	Winners []Candidate `json:"winners"`

	// Eliminated lists candidates in the order they were eliminated
	Eliminated []Candidate `json:"eliminated"`

	Rounds  []Round `json:"rounds"`
	Ballots Ballots `json:"-"`
}

// PartyVotes is one party's raw vote count for apportionment.
type PartyVotes struct {
	Party Candidate `json:"party" yaml:"party" cbor:"party"`
	Votes int64     `json:"votes" yaml:"votes" cbor:"votes"`
}

// SeatAward records which party won one seat and the quotients it was chosen from.
type SeatAward struct {
	Seat      int                   `json:"seat"`
	Party     Candidate             `json:"party"`
	Quotients map[Candidate]float64 `json:"quotients"`
}

// Apportionment is the outcome of a highest-averages seat allocation.
type Apportionment struct {
	Votes  []PartyVotes      `json:"votes"`
	Seats  map[Candidate]int `json:"seats"`
	Awards []SeatAward       `json:"awards"`
}

// Method names used in results and by the selector.
const (
	MethodIRV     = "irv"
	MethodBTRIRV  = "btr-irv"
	MethodSTV     = "stv"
	MethodWebster = "webster"
)
