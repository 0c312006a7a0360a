// Package apperr defines the closed set of failure kinds a timeln run can end with.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. The set is closed; every fatal condition maps to exactly one kind.
type Kind int

const (
	KindUnknown Kind = iota
	// KindInput is a Line Source I/O failure.
	KindInput
	// KindPattern is an invalid filter pattern, detected before any input is read.
	KindPattern
	// KindChannel is a snapshot transport failure (queue already drained).
	KindChannel
	// KindStateAccess is a failure to reach the counter owner. Never fatal.
	KindStateAccess
	// KindOutput is a failure writing annotated lines, the summary or chart files.
	KindOutput
	// KindConfig is an invalid flag, environment or config file value.
	KindConfig
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindPattern:
		return "pattern"
	case KindChannel:
		return "channel"
	case KindStateAccess:
		return "state access"
	case KindOutput:
		return "output"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// ErrInterrupted is returned by the processing loop when it stopped because of an interrupt.
// The run still finalized; callers exit zero.
var ErrInterrupted = errors.New("interrupted")

// Error is a failure tagged with its Kind and the operation that produced it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// New wraps err with a kind and operation name.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf builds a tagged error from a format string. %w verbs are honoured.
func Errorf(kind Kind, op string, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the kind of the outermost tagged error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
