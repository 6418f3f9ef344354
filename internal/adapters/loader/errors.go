package loader

import "errors"

var (
	// ErrAwaitingInput is returned when either dataset has not been provided.
	// It is a waiting state, not a failure.
	ErrAwaitingInput = errors.New("awaiting input")
	// ErrEmptyInput is returned for a stream without a header line.
	ErrEmptyInput = errors.New("empty input")
	// ErrMalformedCSV wraps a csv parse error such as a bare quote.
	ErrMalformedCSV = errors.New("malformed csv")
)
