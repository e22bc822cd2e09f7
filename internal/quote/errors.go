package quote

import "fmt"

// ValidationError indicates a draft operation was given invalid input or the
// draft is not in a submittable shape. The Reason distinguishes the cause
// (missing customer, empty line items, bad quantity, bad price).
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func newValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IndexError indicates an operation referenced a line index outside the
// current draft.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("line index %d out of range [0, %d)", e.Index, e.Len)
}

// InvalidStateError indicates a mutation was attempted on a draft that has
// already been submitted.
type InvalidStateError struct {
	Op string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("draft already submitted: %s not permitted", e.Op)
}
