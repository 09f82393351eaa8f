// Package apperr defines the error taxonomy shared by the reconstructor,
// the oracle client, and the session orchestrator: a small Kind enum plus
// one wrapper type that carries an operation name and the underlying cause,
// so HTTP handlers can map errors to status codes without string-matching
// messages.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error for status-code mapping and logging.
type Kind int

const (
	// KindUnknown is the zero value; never constructed deliberately.
	KindUnknown Kind = iota
	// KindInvalidInput marks malformed or out-of-range caller input
	// (bad plan syntax, out-of-range label, mismatched array lengths).
	KindInvalidInput
	// KindConflict marks a request that is individually valid but
	// conflicts with current state (selecting a session while one is
	// already active without queuing).
	KindConflict
	// KindNotFound marks a reference to a session or resource that does
	// not exist.
	KindNotFound
	// KindUpstream marks a failure surfaced by the oracle HTTP API
	// itself (non-2xx response, malformed body, network error).
	KindUpstream
	// KindPersistence marks a failure in the database layer.
	KindPersistence
	// KindReconstruction marks a failure of the exact or annealing
	// solver to produce a model (infeasible, budget exceeded, internal
	// validation failure).
	KindReconstruction
	// KindInvariant marks an internal invariant violation — a bug, not
	// a caller error — and must never be silently repaired.
	KindInvariant
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindUpstream:
		return "upstream_error"
	case KindPersistence:
		return "persistence_error"
	case KindReconstruction:
		return "reconstruction_failure"
	case KindInvariant:
		return "invariant_violation"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with a Kind and the operation that
// produced it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs an Error.
func New(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// Wrap is New with a formatted message as the cause.
func Wrap(op string, kind Kind, format string, args ...any) *Error {
	return &Error{Op: op, Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the Kind from err if it is (or wraps) an *Error, and
// KindUnknown otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err is an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
