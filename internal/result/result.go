// Package result provides the two-variant outcome type used across the
// application for expected failure paths.
//
// WHY NOT JUST error?
// Go errors are great for infrastructure failures (a socket died, JSON was
// malformed). But a lot of this app's operations have "absent" as a normal,
// expected outcome: a session cookie points at an expired session, a cache
// key has lapsed, a user has never logged in. Modelling those as errors
// forces every caller to invent sentinel errors and errors.Is chains.
// A Result is either Ok with a value or Err with nothing — callers inspect
// the tag once and move on. Infrastructure failures still travel as error.
//
// The Err variant deliberately carries no payload. If a caller needs to know
// WHY something failed, that operation should return an error instead.
package result

// Result is a tagged union: either Ok carrying a value of type T, or Err
// carrying nothing. The zero value is Err, so an uninitialised Result is
// safely a failure, never a phantom success.
type Result[T any] struct {
	data T
	ok   bool
}

// Ok constructs a success carrying v.
func Ok[T any](v T) Result[T] {
	return Result[T]{data: v, ok: true}
}

// Err constructs the failure variant.
func Err[T any]() Result[T] {
	return Result[T]{}
}

// IsOk reports whether the result is the success variant.
func (r Result[T]) IsOk() bool {
	return r.ok
}

// IsErr reports whether the result is the failure variant.
func (r Result[T]) IsErr() bool {
	return !r.ok
}

// Data returns the carried value. Calling Data on an Err result is a
// programming error; it returns the zero value of T rather than panicking,
// but callers must check IsOk first.
func (r Result[T]) Data() T {
	return r.data
}

// Get returns the carried value and the tag in one call, mirroring the
// comma-ok idiom of map lookups:
//
//	if session, ok := res.Get(); ok { ... }
func (r Result[T]) Get() (T, bool) {
	return r.data, r.ok
}
