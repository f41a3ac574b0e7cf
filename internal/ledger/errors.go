package ledger

import "fmt"

// ValidationError reports a split directive that fails a shape or
// sum-tolerance check. It is always surfaced to the caller; the engine
// never silently corrects invalid input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// InvalidStateError reports a settlement status transition attempted from
// a terminal state.
type InvalidStateError struct {
	From string
	To   string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid settlement transition from %q to %q", e.From, e.To)
}
