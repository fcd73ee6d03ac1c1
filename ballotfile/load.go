package ballotfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/MatthewNewland/rcvplus/core"
)

// ReadInput returns the contents of the file at input, or input itself when
// it is not a readable file (inline JSON). The second value is the name used
// for format detection.
func ReadInput(input string) ([]byte, string, error) {
	if data, err := os.ReadFile(input); err == nil {
		return data, input, nil
	}
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || (trimmed[0] != '[' && trimmed[0] != '{') {
		return nil, "", fmt.Errorf("read %s: not a file or inline JSON", input)
	}
	return []byte(trimmed), "", nil
}

// DetectFormat picks a format from the file extension, falling back to
// sniffing the content: JSON documents start with '[' or '{', other valid
// UTF-8 is read as YAML, anything else as CBOR.
func DetectFormat(name string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".cbor":
		return FormatCBOR
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return FormatJSON
	}
	if utf8.Valid(data) {
		return FormatYAML
	}
	return FormatCBOR
}

// DecodeRecords parses a ballot file.
func DecodeRecords(data []byte, format Format) ([]Record, error) {
	var records []Record
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &records)
	case FormatYAML:
		err = yaml.Unmarshal(data, &records)
	case FormatCBOR:
		err = cbor.Unmarshal(data, &records)
	default:
		return nil, fmt.Errorf("unsupported ballot format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s ballots: %w", format, err)
	}
	return records, nil
}

// Expand materialises records into unit ballots, Count copies each, and
// validates the result.
func Expand(records []Record) (core.Ballots, error) {
	ballots := make(core.Ballots, 0, len(records))
	for i, r := range records {
		count := 1
		if r.Count != nil {
			count = *r.Count
		}
		if count < 0 {
			return nil, fmt.Errorf("record %d: %w: negative count %d", i, core.ErrMalformedBallot, count)
		}

		weight := r.Weight
		if weight == 0 {
			weight = 1
		}
		for n := 0; n < count; n++ {
			ballots = append(ballots, core.Ballot{Ranking: slices.Clone(r.Ranking), Weight: weight})
		}
	}

	if err := ballots.Validate(); err != nil {
		return nil, err
	}
	return ballots, nil
}

// LoadBallots reads, decodes and expands a ballot file or inline JSON.
func LoadBallots(input string) (core.Ballots, error) {
	data, name, err := ReadInput(input)
	if err != nil {
		return nil, err
	}
	records, err := DecodeRecords(data, DetectFormat(name, data))
	if err != nil {
		return nil, err
	}
	return Expand(records)
}
