package ebm

import (
	"errors"
	"fmt"
)

// ErrorCode mirrors the C ABI's ErrorEbm enum so callers migrating from the
// handle-based API can branch on the same four buckets, while every
// exported function here still returns an idiomatic Go error.
type ErrorCode int

const (
	ErrorNone ErrorCode = iota
	ErrorIllegalParamVal
	ErrorOutOfMemory
	ErrorUnexpectedInternal
)

func (c ErrorCode) String() string {
	switch c {
	case ErrorNone:
		return "None"
	case ErrorIllegalParamVal:
		return "IllegalParamVal"
	case ErrorOutOfMemory:
		return "OutOfMemory"
	case ErrorUnexpectedInternal:
		return "UnexpectedInternal"
	default:
		return "Unknown"
	}
}

// CodedError is a typed error carrying an ErrorCode, so both errors.As
// inspection and coarse-grained code branching work. It wraps no cause.
type CodedError struct {
	Code    ErrorCode
	Op      string
	Message string
}

func (e *CodedError) Error() string {
	return fmt.Sprintf("ebm: %s: %s: %s", e.Op, e.Code, e.Message)
}

func newCodedError(code ErrorCode, op, message string) error {
	return &CodedError{Code: code, Op: op, Message: message}
}

// IllegalParamVal reports caller misuse: a negative index, a nil shell, an
// out-of-range leavesMax entry.
func illegalParamVal(op, message string) error {
	return newCodedError(ErrorIllegalParamVal, op, message)
}

// outOfMemory reports an allocator failure in RNG seeding or buffer growth.
func outOfMemory(op, message string) error {
	return newCodedError(ErrorOutOfMemory, op, message)
}

// unexpectedInternal reports an invariant violation that should be
// unreachable outside a stubbed code path.
func unexpectedInternal(op, message string) error {
	return newCodedError(ErrorUnexpectedInternal, op, message)
}

// CodeOf extracts the ErrorCode carried by err, returning ErrorNone for a
// nil error and ErrorUnexpectedInternal for any error this package didn't
// originate (a panic recovered by pkg/errors.Recover, for instance).
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ErrorNone
	}
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ErrorUnexpectedInternal
}
