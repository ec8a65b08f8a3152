// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package elderfier

import "fmt"

// ErrorKind identifies the class of a failure returned by any Elderfier
// subsystem. It is a closed set; callers should switch on it rather than
// compare error strings.
type ErrorKind int

const (
	// ErrStructural marks malformed input: an empty required field or an
	// out-of-range integer.
	ErrStructural ErrorKind = iota

	// ErrPolicyViolation marks input that is well-formed but violates a
	// policy bound: amount out of range, commitment mismatch, expired
	// proof, unlock requested too early, and similar.
	ErrPolicyViolation

	// ErrNotFound marks a lookup that found nothing: unknown public key,
	// missing message, absent block.
	ErrNotFound

	// ErrConflict marks a write that collides with existing state:
	// duplicate public key, duplicate service ID, an already-confirmed
	// vote.
	ErrConflict

	// ErrConsensusFailure marks a consensus round that could not reach
	// any threshold, or a signature that failed verification.
	ErrConsensusFailure

	// ErrPersistence marks a failure to read or write durable state.
	ErrPersistence

	// ErrTransport marks failure of an external call: the blockchain
	// explorer, a peer, or any other injected collaborator.
	ErrTransport

	// ErrFatalInvariant marks a broken internal invariant (e.g. reborn
	// supply exceeding burned supply). Callers must treat this as
	// unrecoverable; see FatalInvariantError.
	ErrFatalInvariant
)

// String returns the human-readable name of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrStructural:
		return "structural error"
	case ErrPolicyViolation:
		return "policy violation"
	case ErrNotFound:
		return "not found"
	case ErrConflict:
		return "conflict"
	case ErrConsensusFailure:
		return "consensus failure"
	case ErrPersistence:
		return "persistence error"
	case ErrTransport:
		return "transport error"
	case ErrFatalInvariant:
		return "fatal invariant violation"
	default:
		return "unknown error kind"
	}
}

// Error is the typed error returned by every public Elderfier API. It
// carries a machine-readable Kind alongside the leaf Description, and
// optionally wraps an underlying cause.
type Error struct {
	Kind        ErrorKind
	Description string
	Err         error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Description, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Description)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// newErr constructs an *Error with no wrapped cause.
func newErr(kind ErrorKind, description string) *Error {
	return &Error{Kind: kind, Description: description}
}

// wrapErr constructs an *Error wrapping the given cause.
func wrapErr(kind ErrorKind, description string, err error) *Error {
	return &Error{Kind: kind, Description: description, Err: err}
}

// NewError constructs a typed Error. Exported for use by sibling
// subsystem packages (depositindex, burnproof, consensus, council,
// supply, securitywindow, selector, monitor) so every component returns
// the same closed error shape.
func NewError(kind ErrorKind, description string) *Error {
	return newErr(kind, description)
}

// WrapError constructs a typed Error wrapping an underlying cause.
func WrapError(kind ErrorKind, description string, err error) *Error {
	return wrapErr(kind, description, err)
}

// FatalInvariantError reports that an internal invariant has been
// violated (e.g. "reborn > burned" in the supply ledger). Unlike every
// other error kind, this one has no retry or recovery path; the caller
// that observes it is expected to log at Critical and terminate the
// process. This package never calls os.Exit itself: process lifecycle
// belongs to the daemon that embeds it.
type FatalInvariantError struct {
	Description string
}

// Error implements the error interface.
func (e *FatalInvariantError) Error() string {
	return fmt.Sprintf("fatal invariant violation: %s", e.Description)
}
