// Package ops implements the leaf and inner hashing operators that a
// commitment-proof replays to recompute a Merkle root, and the spec
// conformance checks that reject proofs whose operators don't match the
// tree shape they claim to belong to.
package ops

import "fmt"

// Kind classifies why a proof failed to verify. Internal routines in this
// module and in package proof return errors of this kind; the top-level
// verification API in the root package catches all of them and reports a
// plain boolean instead of propagating the distinction.
type Kind int

const (
	// MalformedProof means a required field was missing: no leaf, no key,
	// no value, an empty child hash, or a non-existence proof with neither
	// neighbor set.
	MalformedProof Kind = iota
	// SpecViolation means the proof doesn't conform to the declared
	// ProofSpec: a leaf/inner operator mismatch, a depth out of bounds, a
	// prefix length outside the padding bounds, or no valid padding branch.
	SpecViolation
	// RootMismatch means the recomputed root doesn't match the supplied one.
	RootMismatch
	// KeyValueMismatch means the proof's key or value doesn't match the one
	// being queried.
	KeyValueMismatch
	// OrderingViolation means a non-existence proof's neighbor ordering or
	// tree adjacency doesn't hold.
	OrderingViolation
	// UnsupportedOperator means a HashOp or LengthOp outside what this
	// implementation computes was used as an active operator.
	UnsupportedOperator
	// InvalidEncoding means an auxiliary encoding (e.g. the sidecar's hex
	// decoding) failed.
	InvalidEncoding
)

func (k Kind) String() string {
	switch k {
	case MalformedProof:
		return "malformed proof"
	case SpecViolation:
		return "spec violation"
	case RootMismatch:
		return "root mismatch"
	case KeyValueMismatch:
		return "key/value mismatch"
	case OrderingViolation:
		return "ordering violation"
	case UnsupportedOperator:
		return "unsupported operator"
	case InvalidEncoding:
		return "invalid encoding"
	default:
		return "unknown error kind"
	}
}

// Error is the error type returned by every fail-hard routine in this
// module and in package proof. Kind lets callers that need to distinguish
// malformed input from a merely-not-matching proof do so; the top-level API
// collapses it to a bool.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// newErr builds an *Error with a formatted message.
func newErr(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}
