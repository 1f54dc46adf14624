// Package errors provides scigo's structured error types.
//
// Every constructor returns a concrete type that can be inspected with
// errors.As, while still composing with errors.Is and fmt.Errorf's %w
// through the standard library's error-chain machinery. Stack traces are
// attached via cockroachdb/errors so a wrapped error retains its origin
// even after crossing several package boundaries.
package errors

import (
	"fmt"

	cockroach "github.com/cockroachdb/errors"
)

// Sentinel errors comparable with errors.Is.
var (
	ErrEmptyData      = cockroach.New("empty data")
	ErrSingularMatrix = cockroach.New("singular matrix")
	ErrNotImplemented = cockroach.New("not implemented")
)

// ValueError reports that an argument had an invalid value, independent of
// its type or shape.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("scigo: %s: %s", e.Op, e.Message)
}

// NewValueError constructs a ValueError.
func NewValueError(op, message string) *ValueError {
	return &ValueError{Op: op, Message: message}
}

// DimensionError reports a shape mismatch between an expected and an
// observed dimension. Axis identifies which dimension disagreed (0 for
// rows, 1 for columns, etc.) when that distinction is meaningful.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("scigo: %s: dimension mismatch: expected %d, got %d (axis %d)",
		e.Op, e.Expected, e.Got, e.Axis)
}

// NewDimensionError constructs a DimensionError.
func NewDimensionError(op string, expected, got, axis int) *DimensionError {
	return &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
}

// NotFittedError reports that a model was used before Fit was called.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("scigo: %s is not fitted for %s", e.ModelName, e.Method)
}

// NewNotFittedError constructs a NotFittedError.
func NewNotFittedError(modelName, method string) *NotFittedError {
	return &NotFittedError{ModelName: modelName, Method: method}
}

// ModelError wraps a lower-level cause with the operation that surfaced it.
type ModelError struct {
	Op      string
	Message string
	Cause   error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("goml: %s: %s: %v", e.Op, e.Message, e.Cause)
}

func (e *ModelError) Unwrap() error { return e.Cause }

// NewModelError constructs a ModelError wrapping cause.
func NewModelError(op, message string, cause error) *ModelError {
	return &ModelError{Op: op, Message: message, Cause: cause}
}

// ValidationError reports that a named field failed validation, carrying
// the offending value for diagnostics.
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("scigo: validation failed for %s: %s (value=%v)", e.Field, e.Message, e.Value)
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// ConvergenceWarning signals that an iterative fit stopped without fully
// converging. It is a warning, not a fatal condition: callers may choose to
// use the partially converged result.
type ConvergenceWarning struct {
	Op        string
	Message   string
	Iteration int
}

func (e *ConvergenceWarning) Error() string {
	return fmt.Sprintf("scigo: %s: convergence warning at iteration %d: %s", e.Op, e.Iteration, e.Message)
}

// NewConvergenceWarning constructs a ConvergenceWarning.
func NewConvergenceWarning(op, message string, iteration int) *ConvergenceWarning {
	return &ConvergenceWarning{Op: op, Message: message, Iteration: iteration}
}

// Wrap attaches a stack trace and a message to err, returning nil if err is
// nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return cockroach.Wrap(err, message)
}

// Newf constructs a stack-trace-carrying error from a format string, the
// way cockroachdb/errors.Newf does, re-exported so callers never need to
// import cockroachdb/errors directly.
func Newf(format string, args ...interface{}) error {
	return cockroach.Newf(format, args...)
}

// Warn accepts a non-fatal condition that scigo corrected transparently
// (clamped, defaulted, or otherwise recovered from) rather than failing the
// call outright, and discards it: nothing is logged or returned.
func Warn(op, message string) {
	// intentionally silent by default; callers that want these surfaced use
	// pkg/log directly. This mirrors LOG_0(Trace_Warning, ...) in the
	// original C++, which is a logging call, not a returned error.
	_ = op
	_ = message
}

// Recover converts a panic on the current goroutine into an error assigned
// to *errp, prefixed with op. Intended to be deferred at the top of an
// exported entry point:
//
//	func (m *Model) Fit(X, y mat.Matrix) (err error) {
//	    defer errors.Recover(&err, "Model.Fit")
//	    ...
//	}
func Recover(errp *error, op string) {
	if r := recover(); r != nil {
		if e, ok := r.(error); ok {
			*errp = cockroach.Wrapf(e, "%s: recovered from panic", op)
			return
		}
		*errp = cockroach.Newf("%s: recovered from panic: %v", op, r)
	}
}
