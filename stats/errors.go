package stats

import (
	"errors"
	"fmt"
)

// ErrInvalidSample is matched by every error Compute returns.
var ErrInvalidSample = errors.New("invalid sample")

// InvalidSampleError describes why a sample has no defined statistics.
// Index is -1 when the problem is not tied to a single value.
type InvalidSampleError struct {
	Index  int
	Reason string
}

func (e *InvalidSampleError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%v: %s", ErrInvalidSample, e.Reason)
	}
	return fmt.Sprintf("%v: %s at index %d", ErrInvalidSample, e.Reason, e.Index)
}

func (e *InvalidSampleError) Is(target error) bool {
	return target == ErrInvalidSample
}
