package core

import "errors"

var (
	// ErrMalformedBallot is returned for a ranking that lists a candidate twice
	// or a ballot with an unusable weight.
	ErrMalformedBallot = errors.New("malformed ballot")

	// ErrEmptyElectorate is returned when there is nothing to count.
	ErrEmptyElectorate = errors.New("no ballots cast")

	ErrInvalidSeats = errors.New("seat count must be at least 1")

	ErrUnknownMethod = errors.New("unknown counting method")
)
