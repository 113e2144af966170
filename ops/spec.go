package ops

// ProofSpec pins the hashing/encoding choices a tree uses, so that a proof
// can't equivocate about its own format: the leaf operator every leaf must
// use, the inner-node branching layout, the depth bounds a path must fall
// within, and whether keys are compared raw or pre-hashed for
// non-existence ordering.
type ProofSpec struct {
	LeafSpec                   LeafOp
	InnerSpec                  InnerSpec
	MinDepth                   int
	MaxDepth                   int
	PrehashKeyBeforeComparison bool
}

// ComparisonKey returns the byte string used to order key against other
// keys in a non-existence proof: the raw key, or its pre-hash, per spec.
func ComparisonKey(spec ProofSpec, key []byte) ([]byte, error) {
	if !spec.PrehashKeyBeforeComparison {
		return key, nil
	}
	// Comparison pre-hashing always uses SHA-256, independent of the
	// spec's inner/leaf hash op (which, for every built-in spec, is also
	// SHA-256).
	return doHash(SHA256, key)
}
