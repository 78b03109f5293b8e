package kibble

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrInvalidKey is returned when a set key is empty.
	ErrInvalidKey = errors.New("invalid key")

	// ErrClosed is returned by operations on a closed store or session.
	ErrClosed = errors.New("closed")
)

// BatchError collects per-member errors from a multi-member operation.
// Errors is keyed by the member's position in the call's argument list.
type BatchError struct {
	Op     string
	Total  int
	Errors map[int]error
}

// newBatchError returns nil when errs is empty.
func newBatchError(op string, total int, errs map[int]error) *BatchError {
	if len(errs) == 0 {
		return nil
	}
	return &BatchError{Op: op, Total: total, Errors: errs}
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch %s: %d of %d members failed", e.Op, len(e.Errors), e.Total)
}

// Unwrap returns the inner errors ordered by member position, so errors.Is
// and errors.As match through the batch.
func (e *BatchError) Unwrap() []error {
	idx := make([]int, 0, len(e.Errors))
	for i := range e.Errors {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	errs := make([]error, 0, len(idx))
	for _, i := range idx {
		errs = append(errs, e.Errors[i])
	}
	return errs
}
