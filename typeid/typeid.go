// Package typeid gives every message type flowing through the runtime a
// process-stable, comparable identity without hand-rolled reflection
// bookkeeping: it is a thin wrapper around reflect.Type, which Go already
// interns per type.
package typeid

import (
	"fmt"
	"reflect"
)

// ID uniquely identifies a message element type. Two IDs compare equal iff
// they were obtained from the same type. IDs are totally ordered by their
// string form, which is only used for deterministic diagnostics output.
type ID struct {
	rt reflect.Type
}

// Of returns the ID for type T. Calling Of[T]() from any number of call
// sites in the same process always yields an equal ID for the same T, and a
// distinct ID for any other type.
func Of[T any]() ID {
	return ID{rt: reflect.TypeOf((*T)(nil)).Elem()}
}

// String renders the underlying type name, e.g. "int", "*main.Tick".
func (id ID) String() string {
	if id.rt == nil {
		return "<invalid>"
	}
	return id.rt.String()
}

// Less gives IDs a total order based on their string representation, used
// only where a deterministic iteration order is needed (e.g. diagnostics);
// equality for correctness checks should always use ==.
func (id ID) Less(other ID) bool {
	return id.String() < other.String()
}

// Valid reports whether this ID was obtained from Of rather than being the
// zero value.
func (id ID) Valid() bool {
	return id.rt != nil
}

// GoString implements fmt.GoStringer for readable test failure output.
func (id ID) GoString() string {
	return fmt.Sprintf("typeid.ID(%s)", id.String())
}

// Status is the outcome of a send or receive attempt.
type Status int

const (
	// Okay indicates the operation completed and the payload is valid.
	Okay Status = iota
	// TypeMismatch indicates the caller's type disagreed with the port's
	// declared type.
	TypeMismatch
	// Terminated indicates the component's shouldRun flag flipped false
	// while the caller was blocked, or the target queue was closed.
	Terminated
	// Error is reserved for future internal failures; unused today.
	Error
)

// String renders the status for logging and test failure messages.
func (s Status) String() string {
	switch s {
	case Okay:
		return "Okay"
	case TypeMismatch:
		return "TypeMismatch"
	case Terminated:
		return "Terminated"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// Optional carries either a value with Okay status, or no value with one of
// the failure statuses. The value is stored inline; reading Value when
// Status is not Okay returns T's zero value and is a programmer error to
// rely on.
type Optional[T any] struct {
	Value  T
	Status Status
}

// Ok constructs a successful Optional.
func Ok[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Status: Okay}
}

// Failed constructs a failed Optional carrying the given non-Okay status.
func Failed[T any](status Status) Optional[T] {
	return Optional[T]{Status: status}
}

// IsOkay reports whether the Optional carries a valid value.
func (o Optional[T]) IsOkay() bool {
	return o.Status == Okay
}
