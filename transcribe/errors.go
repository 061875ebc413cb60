package transcribe

import "errors"

// Sentinel errors for the failure modes of the pipeline. All of them are
// detected eagerly at the start of the component that owns the check.
var (
	ErrInvalidRange       = errors.New("invalid note range")
	ErrInvalidProbability = errors.New("probability out of range")
	ErrDimensionMismatch  = errors.New("matrix dimension mismatch")
	ErrEmptyInput         = errors.New("empty input")
	ErrInvalidTempo       = errors.New("invalid tempo")
)
