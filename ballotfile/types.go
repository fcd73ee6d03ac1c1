package ballotfile

// Record is one entry of a ballot file: a ranking cast Count times.
// A missing count means one ballot; an explicit zero contributes none.
type Record struct {
	Ranking []string `json:"ranking" yaml:"ranking" cbor:"ranking"`
	Count   *int     `json:"count,omitempty" yaml:"count,omitempty" cbor:"count,omitempty"`
	Weight  float64  `json:"weight,omitempty" yaml:"weight,omitempty" cbor:"weight,omitempty"`
}

// PartyRecord is one entry of a party-vote file in list form.
type PartyRecord struct {
	Party string `json:"party" yaml:"party" cbor:"party"`
	Votes int64  `json:"votes" yaml:"votes" cbor:"votes"`
}

// Format identifies the encoding of an input document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
)
