// Package errs provides the unified error type used across cursorkit.
//
// Every subsystem (database drivers, result sets, filestore, snapshots)
// returns *errs.Error. Callers branch on the Is* predicates instead of
// importing driver-specific packages:
//
//	v, err := cursor.GetInt32(rs, "age")
//	if errs.IsColumnNotFound(err) {
//	    // the result set has no "age" column
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing backend-specific codes.
type ErrKind int

const (
	ErrKindUnknown          ErrKind = iota
	ErrKindNotFound                 // no rows, no object, no bucket
	ErrKindConnectionFailed         // cannot reach the backend
	ErrKindTimeout                  // context deadline / cancellation
	ErrKindQueryFailed              // SQL or storage operation error
	ErrKindInvalidInput             // bad arguments from the caller
	ErrKindPermissionDenied         // access denied / auth failure
	ErrKindColumnNotFound           // no column with that name in the result set
	ErrKindNullValue                // typed read of a NULL cell
	ErrKindTypeMismatch             // cell cannot be read as the requested type
	ErrKindOutOfRange               // numeric cell does not fit the requested width
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not_found"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindQueryFailed:
		return "query_failed"
	case ErrKindInvalidInput:
		return "invalid_input"
	case ErrKindPermissionDenied:
		return "permission_denied"
	case ErrKindColumnNotFound:
		return "column_not_found"
	case ErrKindNullValue:
		return "null_value"
	case ErrKindTypeMismatch:
		return "type_mismatch"
	case ErrKindOutOfRange:
		return "out_of_range"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by all cursorkit subsystems.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original backend error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf is New with a formatted message.
func Newf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// --- Predicates ---

// IsNotFound reports whether err represents a "not found" result
// (no rows, missing object, unknown bucket, …).
func IsNotFound(err error) bool {
	return KindOf(err) == ErrKindNotFound
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return KindOf(err) == ErrKindTimeout
}

// IsConnectionFailed reports whether err is a connectivity failure.
func IsConnectionFailed(err error) bool {
	return KindOf(err) == ErrKindConnectionFailed
}

// IsQueryFailed reports whether err is a backend operation failure.
func IsQueryFailed(err error) bool {
	return KindOf(err) == ErrKindQueryFailed
}

// IsInvalidInput reports whether err was caused by bad input from the caller.
func IsInvalidInput(err error) bool {
	return KindOf(err) == ErrKindInvalidInput
}

// IsPermissionDenied reports whether err is an access control failure.
func IsPermissionDenied(err error) bool {
	return KindOf(err) == ErrKindPermissionDenied
}

// IsColumnNotFound reports whether err means a column name did not resolve.
func IsColumnNotFound(err error) bool {
	return KindOf(err) == ErrKindColumnNotFound
}

// IsNullValue reports whether err came from a typed read of a NULL cell.
func IsNullValue(err error) bool {
	return KindOf(err) == ErrKindNullValue
}

// IsTypeMismatch reports whether err came from reading a cell as an
// incompatible type.
func IsTypeMismatch(err error) bool {
	return KindOf(err) == ErrKindTypeMismatch
}

// IsOutOfRange reports whether err came from a numeric narrowing overflow.
func IsOutOfRange(err error) bool {
	return KindOf(err) == ErrKindOutOfRange
}

// KindOf extracts the ErrKind of the first *Error in the chain.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
