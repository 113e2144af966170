package commitproof

import "github.com/merkleproofs/commitproof/ops"

// IAVLSpec matches the proof format produced by the IAVL+ tree: values are
// pre-hashed before the VAR_PROTO length prefix, and inner nodes may carry
// up to one sibling child's worth of extra prefix padding.
var IAVLSpec = ops.ProofSpec{
	LeafSpec: ops.LeafOp{
		Hash:         ops.SHA256,
		PrehashKey:   ops.NoHash,
		PrehashValue: ops.SHA256,
		Length:       ops.VarProto,
		Prefix:       []byte{0x00},
	},
	InnerSpec: ops.InnerSpec{
		ChildOrder:   []int{0, 1},
		ChildSize:    33,
		MinPrefixLen: 4,
		MaxPrefixLen: 12,
		Hash:         ops.SHA256,
	},
	MinDepth: 0,
	MaxDepth: 0,
}

// TendermintSpec matches the proof format produced by Tendermint's
// SimpleMerkle trees.
var TendermintSpec = ops.ProofSpec{
	LeafSpec: ops.LeafOp{
		Hash:         ops.SHA256,
		PrehashKey:   ops.NoHash,
		PrehashValue: ops.SHA256,
		Length:       ops.VarProto,
		Prefix:       []byte{0x00},
	},
	InnerSpec: ops.InnerSpec{
		ChildOrder:   []int{0, 1},
		ChildSize:    32,
		MinPrefixLen: 1,
		MaxPrefixLen: 1,
		Hash:         ops.SHA256,
	},
	MinDepth: 0,
	MaxDepth: 0,
}

// SMTSpec matches a generic sparse Merkle tree where both the key and the
// value are hashed into the leaf, and ordering for non-existence proofs
// compares keys by their pre-hash.
var SMTSpec = ops.ProofSpec{
	LeafSpec: ops.LeafOp{
		Hash:         ops.SHA256,
		PrehashKey:   ops.SHA256,
		PrehashValue: ops.SHA256,
		Length:       ops.NoPrefix,
		Prefix:       []byte{0x00},
	},
	InnerSpec: ops.InnerSpec{
		ChildOrder:   []int{0, 1},
		ChildSize:    32,
		MinPrefixLen: 1,
		MaxPrefixLen: 1,
		Hash:         ops.SHA256,
	},
	MinDepth:                   0,
	MaxDepth:                   0,
	PrehashKeyBeforeComparison: true,
}
