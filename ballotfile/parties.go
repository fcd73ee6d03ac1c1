package ballotfile

import (
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/MatthewNewland/rcvplus/core"
)

// DecodeParties parses a party-vote file. Two shapes are accepted: a list
// of {party, votes} records, or a mapping of party to votes. Document order
// is kept for both shapes in JSON and YAML; CBOR mappings are sorted by party.
func DecodeParties(data []byte, format Format) ([]core.PartyVotes, error) {
	switch format {
	case FormatJSON, FormatYAML:
		// JSON is a subset of YAML, and a yaml.Node keeps mapping order
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse %s parties: %w", format, err)
		}
		if len(doc.Content) == 0 {
			return nil, fmt.Errorf("parse %s parties: empty document", format)
		}
		return partiesFromNode(doc.Content[0])
	case FormatCBOR:
		return partiesFromCBOR(data)
	}
	return nil, fmt.Errorf("unsupported party format %q", format)
}

func partiesFromNode(node *yaml.Node) ([]core.PartyVotes, error) {
	switch node.Kind {
	case yaml.SequenceNode:
		var records []PartyRecord
		if err := node.Decode(&records); err != nil {
			return nil, fmt.Errorf("decode party list: %w", err)
		}
		return fromRecords(records), nil

	case yaml.MappingNode:
		out := make([]core.PartyVotes, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			var votes int64
			if err := node.Content[i+1].Decode(&votes); err != nil {
				return nil, fmt.Errorf("decode votes for %q: %w", node.Content[i].Value, err)
			}
			out = append(out, core.PartyVotes{Party: node.Content[i].Value, Votes: votes})
		}
		return out, nil
	}
	return nil, fmt.Errorf("party votes must be a list or a mapping")
}

func partiesFromCBOR(data []byte) ([]core.PartyVotes, error) {
	var records []PartyRecord
	if err := cbor.Unmarshal(data, &records); err == nil {
		return fromRecords(records), nil
	}

	var mapping map[string]int64
	if err := cbor.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("parse cbor parties: %w", err)
	}
	parties := make([]string, 0, len(mapping))
	for p := range mapping {
		parties = append(parties, p)
	}
	sort.Strings(parties)

	out := make([]core.PartyVotes, 0, len(parties))
	for _, p := range parties {
		out = append(out, core.PartyVotes{Party: p, Votes: mapping[p]})
	}
	return out, nil
}

func fromRecords(records []PartyRecord) []core.PartyVotes {
	out := make([]core.PartyVotes, 0, len(records))
	for _, r := range records {
		out = append(out, core.PartyVotes{Party: r.Party, Votes: r.Votes})
	}
	return out
}

// LoadParties reads and decodes a party-vote file or inline JSON.
func LoadParties(input string) ([]core.PartyVotes, error) {
	data, name, err := ReadInput(input)
	if err != nil {
		return nil, err
	}
	return DecodeParties(data, DetectFormat(name, data))
}
