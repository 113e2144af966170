package commitproof

import (
	"encoding/binary"

	"github.com/merkleproofs/commitproof/ops"
	"github.com/merkleproofs/commitproof/proof"
)

// CompressedExistenceProof is an ExistenceProof whose Path has been
// replaced by indices into a CompressedBatchProof's LookupInners table.
type CompressedExistenceProof struct {
	Key   []byte
	Value []byte
	Leaf  ops.LeafOp
	Path  []int32
}

// CompressedNonExistenceProof is a NonExistenceProof whose neighbor paths
// have been replaced by indices into a CompressedBatchProof's LookupInners
// table.
type CompressedNonExistenceProof struct {
	Key   []byte
	Left  *CompressedExistenceProof
	Right *CompressedExistenceProof
}

// CompressedBatchEntry is one entry of a CompressedBatchProof.
type CompressedBatchEntry struct {
	Exist    *CompressedExistenceProof
	Nonexist *CompressedNonExistenceProof
}

// CompressedBatchProof is a BatchProof with duplicate inner operators
// deduplicated: every occurrence of the same encoded InnerOp across every
// subproof's path is replaced by a single index into LookupInners.
type CompressedBatchProof struct {
	Entries      []CompressedBatchEntry
	LookupInners []ops.InnerOp
}

// encodeInnerOp produces the canonical byte encoding of op used to key the
// deduplication table in Compress. It need not be a wire format — only
// injective and deterministic for the lifetime of a single Compress call.
func encodeInnerOp(op ops.InnerOp) string {
	var buf []byte
	var lenbuf [binary.MaxVarintLen64]byte

	n := binary.PutUvarint(lenbuf[:], uint64(op.Hash))
	buf = append(buf, lenbuf[:n]...)

	n = binary.PutUvarint(lenbuf[:], uint64(len(op.Prefix)))
	buf = append(buf, lenbuf[:n]...)
	buf = append(buf, op.Prefix...)

	n = binary.PutUvarint(lenbuf[:], uint64(len(op.Suffix)))
	buf = append(buf, lenbuf[:n]...)
	buf = append(buf, op.Suffix...)

	return string(buf)
}

// innerOpTable deduplicates InnerOp values by their canonical encoding,
// assigning indices in first-appearance order.
type innerOpTable struct {
	index map[string]int32
	ops   []ops.InnerOp
}

func newInnerOpTable() *innerOpTable {
	return &innerOpTable{index: make(map[string]int32)}
}

func (t *innerOpTable) intern(op ops.InnerOp) int32 {
	key := encodeInnerOp(op)
	if idx, ok := t.index[key]; ok {
		return idx
	}
	idx := int32(len(t.ops))
	t.index[key] = idx
	t.ops = append(t.ops, op)
	return idx
}

func compressExistence(e *proof.ExistenceProof, t *innerOpTable) *CompressedExistenceProof {
	if e == nil {
		return nil
	}
	path := make([]int32, len(e.Path))
	for i, op := range e.Path {
		path[i] = t.intern(op)
	}
	return &CompressedExistenceProof{Key: e.Key, Value: e.Value, Leaf: e.Leaf, Path: path}
}

func compressNonExistence(ne *proof.NonExistenceProof, t *innerOpTable) *CompressedNonExistenceProof {
	if ne == nil {
		return nil
	}
	return &CompressedNonExistenceProof{
		Key:   ne.Key,
		Left:  compressExistence(ne.Left, t),
		Right: compressExistence(ne.Right, t),
	}
}

// Compress rewrites a CommitmentProof's batch into a CompressedBatchProof
// that shares inner operators byte-identical across entries. Non-batch
// proofs (Exist, Nonexist, or an already-Compressed one) pass through
// unchanged.
func Compress(p CommitmentProof) CommitmentProof {
	if p.Batch == nil {
		return p
	}
	t := newInnerOpTable()
	entries := make([]CompressedBatchEntry, len(p.Batch.Entries))
	for i, e := range p.Batch.Entries {
		entries[i] = CompressedBatchEntry{
			Exist:    compressExistence(e.Exist, t),
			Nonexist: compressNonExistence(e.Nonexist, t),
		}
	}
	return CommitmentProof{Compressed: &CompressedBatchProof{Entries: entries, LookupInners: t.ops}}
}

func decompressExistence(e *CompressedExistenceProof, lookup []ops.InnerOp) (*proof.ExistenceProof, error) {
	if e == nil {
		return nil, nil
	}
	path := make([]ops.InnerOp, len(e.Path))
	for i, idx := range e.Path {
		if int(idx) < 0 || int(idx) >= len(lookup) {
			return nil, &ops.Error{Kind: ops.MalformedProof, Msg: "compressed path index out of range"}
		}
		path[i] = lookup[idx]
	}
	return &proof.ExistenceProof{Key: e.Key, Value: e.Value, Leaf: e.Leaf, Path: path}, nil
}

func decompressNonExistence(ne *CompressedNonExistenceProof, lookup []ops.InnerOp) (*proof.NonExistenceProof, error) {
	if ne == nil {
		return nil, nil
	}
	left, err := decompressExistence(ne.Left, lookup)
	if err != nil {
		return nil, err
	}
	right, err := decompressExistence(ne.Right, lookup)
	if err != nil {
		return nil, err
	}
	return &proof.NonExistenceProof{Key: ne.Key, Left: left, Right: right}, nil
}

// Decompress is the inverse of Compress: it replaces index sequences with
// their looked-up InnerOp values. Non-compressed proofs pass through
// unchanged. For every proof p, Decompress(Compress(p)) is
// verification-equivalent to p.
func Decompress(p CommitmentProof) (CommitmentProof, error) {
	if p.Compressed == nil {
		return p, nil
	}
	entries := make([]BatchEntry, len(p.Compressed.Entries))
	for i, e := range p.Compressed.Entries {
		exist, err := decompressExistence(e.Exist, p.Compressed.LookupInners)
		if err != nil {
			return CommitmentProof{}, err
		}
		nonexist, err := decompressNonExistence(e.Nonexist, p.Compressed.LookupInners)
		if err != nil {
			return CommitmentProof{}, err
		}
		entries[i] = BatchEntry{Exist: exist, Nonexist: nonexist}
	}
	return CommitmentProof{Batch: &BatchProof{Entries: entries}}, nil
}
