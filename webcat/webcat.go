// Package webcat verifies a self-contained sparse-Merkle sidecar proof: it
// rebuilds a "JMT"-style sparse Merkle root directly from a supplied full
// leaf set, then chains that root through the generic existence verifier
// in package proof to an application-level root hash.
package webcat

import (
	"bytes"
	"crypto/sha256"
	"strings"

	"github.com/merkleproofs/commitproof"
	"github.com/merkleproofs/commitproof/ops"
	"github.com/merkleproofs/commitproof/proof"
)

const (
	// leafPrefix tags every sidecar leaf preimage.
	leafPrefix = "JMT::LeafNode"
	// innerPrefix tags every sidecar inner-node preimage. A historical
	// producer emitted "JMT::IntrnalNode" (missing the 'e'); WebcatSpec's
	// prefix-length bounds tolerate that one-byte-shorter spelling when
	// validating a chained existence proof, but this package always
	// constructs roots with the non-typo'd spelling.
	innerPrefix = "JMT::InternalNode"
	// maxDepth bounds the recursive descent in buildRoot: a key hash is
	// 256 bits, so there are at most 256 branch points.
	maxDepth = 256
	// canonicalKeyTrim is the key prefix buildRoot strips before hashing.
	canonicalKeyTrim = "canonical/"
)

// Placeholder is the digest substituted for an empty subtree.
var Placeholder = sha256.Sum256([]byte("SPARSE_MERKLE_PLACEHOLDER_HASH__"))

// WebcatSpec is the ProofSpec a chained existence proof (the last element
// of a sidecar proof's proof_bytes) must conform to.
var WebcatSpec = ops.ProofSpec{
	LeafSpec: ops.LeafOp{
		Hash:         ops.SHA256,
		PrehashKey:   ops.SHA256,
		PrehashValue: ops.SHA256,
		Length:       ops.NoPrefix,
		Prefix:       []byte(leafPrefix),
	},
	InnerSpec: ops.InnerSpec{
		ChildOrder:   []int{0, 1},
		ChildSize:    32,
		MinPrefixLen: len("JMT::IntrnalNode"), // tolerate the historical typo
		MaxPrefixLen: len(innerPrefix),
		Hash:         ops.SHA256,
	},
	MinDepth:                   0,
	MaxDepth:                   maxDepth,
	PrehashKeyBeforeComparison: true,
}

// WebcatLeaf is one raw (key, value) record of the full leaf set used to
// reconstruct a sidecar root.
type WebcatLeaf struct {
	Key   []byte
	Value []byte
}

func canonicalKey(key []byte) []byte {
	return []byte(strings.TrimPrefix(string(key), canonicalKeyTrim))
}

// leafNodeHash computes a leaf's node hash: this is exactly ApplyLeaf under
// WebcatSpec.LeafSpec, since SHA256(leafPrefix || SHA256(canonicalKey) ||
// SHA256(value)) is what that LeafOp produces with NO_PREFIX length
// encoding.
func leafNodeHash(l WebcatLeaf) ([]byte, error) {
	return ops.ApplyLeaf(WebcatSpec.LeafSpec, canonicalKey(l.Key), l.Value)
}

func innerNodeHash(left, right []byte) []byte {
	preimage := make([]byte, 0, len(innerPrefix)+len(left)+len(right))
	preimage = append(preimage, innerPrefix...)
	preimage = append(preimage, left...)
	preimage = append(preimage, right...)
	sum := sha256.Sum256(preimage)
	return sum[:]
}

// keyedLeaf pairs a WebcatLeaf with the SHA-256 of its canonical key, which
// steers its position during the bitwise descent in buildRoot.
type keyedLeaf struct {
	leaf    WebcatLeaf
	keyHash [32]byte
}

// bit returns bit `depth` of h, numbered MSB-first within each byte.
func bit(h [32]byte, depth int) int {
	byteIdx := depth / 8
	bitIdx := 7 - depth%8
	return int((h[byteIdx] >> bitIdx) & 1)
}

// BuildRoot reconstructs the sparse-Merkle root directly from the full
// leaf set: an empty set hashes to Placeholder, a singleton (or a subtree
// at maxDepth) hashes to its leaf's node hash, and otherwise leaves are
// partitioned by the next bit of their key hash and recursively combined.
func BuildRoot(leaves []WebcatLeaf) ([]byte, error) {
	keyed := make([]keyedLeaf, len(leaves))
	for i, l := range leaves {
		keyed[i] = keyedLeaf{leaf: l, keyHash: sha256.Sum256(canonicalKey(l.Key))}
	}
	return buildRoot(keyed, 0)
}

func buildRoot(leaves []keyedLeaf, depth int) ([]byte, error) {
	if len(leaves) == 0 {
		return Placeholder[:], nil
	}
	if len(leaves) == 1 || depth >= maxDepth {
		return leafNodeHash(leaves[0].leaf)
	}

	var left, right []keyedLeaf
	for _, kl := range leaves {
		if bit(kl.keyHash, depth) == 0 {
			left = append(left, kl)
		} else {
			right = append(right, kl)
		}
	}

	leftHash, err := buildRoot(left, depth+1)
	if err != nil {
		return nil, err
	}
	rightHash, err := buildRoot(right, depth+1)
	if err != nil {
		return nil, err
	}
	return innerNodeHash(leftHash, rightHash), nil
}

// VerifyWebcatProof checks that leaves reconstructs to canonicalRootHash,
// and that the last element of proofBytes is an existence proof chaining
// "canonical" -> canonicalRootHash into appHash under WebcatSpec. On
// success it returns the normalized leaf list; any failure (a root
// mismatch, a missing or non-existence final element, or a broken chain)
// returns (nil, false).
func VerifyWebcatProof(leaves []WebcatLeaf, proofBytes []commitproof.CommitmentProof, appHash, canonicalRootHash []byte) ([]WebcatLeaf, bool) {
	root, err := BuildRoot(leaves)
	if err != nil || !bytes.Equal(root, canonicalRootHash) {
		return nil, false
	}
	if len(proofBytes) == 0 {
		return nil, false
	}
	last := proofBytes[len(proofBytes)-1]
	if last.Exist == nil {
		return nil, false
	}
	if err := proof.VerifyExistence(*last.Exist, WebcatSpec, appHash, []byte("canonical"), canonicalRootHash); err != nil {
		return nil, false
	}

	normalized := make([]WebcatLeaf, len(leaves))
	copy(normalized, leaves)
	return normalized, true
}
