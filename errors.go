package vecops

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedMetric is returned when an operation does not support the requested metric.
	ErrUnsupportedMetric = errors.New("unsupported metric")

	// ErrInvalidWidth is returned for a preferred width other than 128, 256 or 512.
	ErrInvalidWidth = errors.New("invalid preferred width")

	// ErrInvalidCodebook is returned when codebook shapes are inconsistent.
	ErrInvalidCodebook = errors.New("invalid codebook")

	// ErrTooManyNeighbors is returned when more candidates are packed than one bulk batch holds.
	ErrTooManyNeighbors = errors.New("too many neighbors for one batch")

	// ErrCorruptCodebooks is returned when a serialized codebook blob cannot be decoded.
	ErrCorruptCodebooks = errors.New("corrupt codebook data")
)

// ErrDimensionMismatch indicates a vector/query dimensionality mismatch.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

// NewDimensionMismatch returns an ErrDimensionMismatch wrapping cause.
func NewDimensionMismatch(expected, actual int, cause error) *ErrDimensionMismatch {
	return &ErrDimensionMismatch{Expected: expected, Actual: actual, cause: cause}
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// ErrBufferTooSmall indicates a caller buffer shorter than an operation requires.
type ErrBufferTooSmall struct {
	Buffer string
	Need   int
	Have   int
}

func (e *ErrBufferTooSmall) Error() string {
	return fmt.Sprintf("%s buffer too small: need %d, have %d", e.Buffer, e.Need, e.Have)
}
