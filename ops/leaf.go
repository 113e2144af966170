package ops

import "bytes"

// LeafOp describes how to turn a (key, value) pair into the hash of a leaf
// node. The same LeafOp value is carried in an ExistenceProof and in a
// ProofSpec; EnsureLeaf checks that the two are byte-identical before the
// leaf hash produced by the proof is trusted.
type LeafOp struct {
	Hash         HashOp
	PrehashKey   HashOp
	PrehashValue HashOp
	Length       LengthOp
	Prefix       []byte
}

// ApplyLeaf computes the leaf digest for (key, value) under op:
//
//	pkey   = doLengthOp(op.Length, doHashOrNoop(op.PrehashKey, key))
//	pvalue = doLengthOp(op.Length, doHashOrNoop(op.PrehashValue, value))
//	digest = doHash(op.Hash, op.Prefix || pkey || pvalue)
func ApplyLeaf(op LeafOp, key, value []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, newErr(MalformedProof, "missing key")
	}
	if len(value) == 0 {
		return nil, newErr(MalformedProof, "missing value")
	}

	hkey, err := doHashOrNoop(op.PrehashKey, key)
	if err != nil {
		return nil, err
	}
	pkey, err := doLengthOp(op.Length, hkey)
	if err != nil {
		return nil, err
	}

	hvalue, err := doHashOrNoop(op.PrehashValue, value)
	if err != nil {
		return nil, err
	}
	pvalue, err := doLengthOp(op.Length, hvalue)
	if err != nil {
		return nil, err
	}

	preimage := make([]byte, 0, len(op.Prefix)+len(pkey)+len(pvalue))
	preimage = append(preimage, op.Prefix...)
	preimage = append(preimage, pkey...)
	preimage = append(preimage, pvalue...)
	return doHash(op.Hash, preimage)
}

// EnsureLeaf requires leaf and leafSpec to be byte-identical in every
// field: a proof whose leaf operator doesn't match the spec's leaf
// operator could have been constructed under a different hashing regime
// entirely and must be rejected before its hash is trusted.
func EnsureLeaf(leaf, leafSpec LeafOp) error {
	if leaf.Hash != leafSpec.Hash {
		return newErr(SpecViolation, "leaf hash op %v does not match spec %v", leaf.Hash, leafSpec.Hash)
	}
	if leaf.PrehashKey != leafSpec.PrehashKey {
		return newErr(SpecViolation, "leaf prehashKey %v does not match spec %v", leaf.PrehashKey, leafSpec.PrehashKey)
	}
	if leaf.PrehashValue != leafSpec.PrehashValue {
		return newErr(SpecViolation, "leaf prehashValue %v does not match spec %v", leaf.PrehashValue, leafSpec.PrehashValue)
	}
	if leaf.Length != leafSpec.Length {
		return newErr(SpecViolation, "leaf length op %v does not match spec %v", leaf.Length, leafSpec.Length)
	}
	if !bytes.Equal(leaf.Prefix, leafSpec.Prefix) {
		return newErr(SpecViolation, "leaf prefix %x does not match spec %x", leaf.Prefix, leafSpec.Prefix)
	}
	return nil
}
