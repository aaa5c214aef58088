// Package simerr defines the fatal error taxonomy shared by every stage of
// the simulator. All errors in this system are fatal: a caller that
// receives one is expected to log it, tagged with its zone, emit DONE on
// stdout, and exit with a non-zero status. There is no retry path.
package simerr

import (
	"errors"
	"fmt"
)

// The four abstract error kinds. Wrap one of these with Wrap to attach
// context; classify a returned error with errors.Is against these
// sentinels.
var (
	// ErrMalformedInput covers header parse failures, out-of-order or
	// out-of-range ids, and mismatched node counts between files.
	ErrMalformedInput = errors.New("malformed input")
	// ErrAllocationFailure covers zone setup or state allocation that
	// cannot secure the memory it needs.
	ErrAllocationFailure = errors.New("allocation failure")
	// ErrInvariantViolation covers internal contract breaches, such as a
	// zone id assigned outside [0, Z).
	ErrInvariantViolation = errors.New("invariant violation")
	// ErrTransportFailure covers a non-recoverable send/receive/broadcast
	// error from the Transport capability.
	ErrTransportFailure = errors.New("transport failure")
)

// Wrap formats a message and attaches it to kind so errors.Is(err, kind)
// still succeeds after this error crosses package boundaries.
func Wrap(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), kind)
}
