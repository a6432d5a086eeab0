// Package apperror defines the closed set of domain errors the lifecycle
// engine can return. Each carries a machine-readable kind, a human-readable
// message, and an HTTP-like severity code. Infrastructure errors (database,
// etc.) are never wrapped into these; they propagate unchanged.
package apperror

import (
	"errors"
	"fmt"
)

type Kind string

const (
	// KindValidation: malformed input (bad date, wrong cardinality, missing
	// rejection reason). Recoverable by correcting input.
	KindValidation Kind = "validation_error"
	// KindForbidden: actor not authorized for the requested operation.
	KindForbidden Kind = "forbidden"
	// KindInvalidTransition: current status does not permit the change.
	KindInvalidTransition Kind = "invalid_transition"
	// KindNoOp: the operation produced nothing new; benign and reportable.
	KindNoOp Kind = "no_op"
	// KindConflict: a concurrent writer won a uniqueness race; treated as a
	// benign skip, never a hard failure.
	KindConflict Kind = "conflict"
)

type Error struct {
	Kind    Kind
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...), Code: 400}
}

func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...), Code: 403}
}

func InvalidTransition(current, attempted string) *Error {
	return &Error{
		Kind:    KindInvalidTransition,
		Message: fmt.Sprintf("cannot transition task from %s to %s", current, attempted),
		Code:    409,
	}
}

func NoOp(format string, args ...any) *Error {
	return &Error{Kind: KindNoOp, Message: fmt.Sprintf(format, args...), Code: 409}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...), Code: 409}
}

// As unwraps err into an *Error, or returns nil if err is not a domain error.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, k Kind) bool {
	e := As(err)
	return e != nil && e.Kind == k
}
