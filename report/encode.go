package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// cborMode encodes with the core deterministic rules so equal documents
// produce identical bytes.
var cborMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cbor encoding mode: %v", err))
	}
	return em
}()

// EncodeJSON writes doc as indented JSON.
func EncodeJSON(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode json report: %w", err)
	}
	return nil
}

// EncodeCBOR writes doc as deterministic CBOR.
func EncodeCBOR(w io.Writer, doc *Document) error {
	data, err := MarshalCBOR(doc)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write cbor report: %w", err)
	}
	return nil
}

func MarshalCBOR(doc *Document) ([]byte, error) {
	data, err := cborMode.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode cbor report: %w", err)
	}
	return data, nil
}

// DecodeCBOR parses a document written by EncodeCBOR.
func DecodeCBOR(data []byte) (*Document, error) {
	var doc Document
	if err := cbor.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode cbor report: %w", err)
	}
	return &doc, nil
}
