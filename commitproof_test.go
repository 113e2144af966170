// Copyright 2022 Google LLC. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commitproof

import (
	"crypto/sha256"
	"testing"

	"github.com/merkleproofs/commitproof/ops"
	"github.com/merkleproofs/commitproof/proof"
)

var flatLeaf = ops.LeafOp{Hash: ops.SHA256, Length: ops.NoPrefix}

var flatSpec = ops.ProofSpec{
	LeafSpec: flatLeaf,
	InnerSpec: ops.InnerSpec{
		ChildOrder:   []int{0, 1},
		ChildSize:    32,
		MinPrefixLen: 0,
		MaxPrefixLen: 32,
		Hash:         ops.SHA256,
	},
}

func sha(b []byte) []byte {
	sum := sha256.Sum256(b)
	return sum[:]
}

// oneStepExistence builds a single-leaf, single-inner-step existence proof
// and returns it alongside the root it replays to.
func oneStepExistence(key, value []byte) (proof.ExistenceProof, []byte) {
	leafHash := sha(append(append([]byte{}, key...), value...))
	step := ops.InnerOp{Hash: ops.SHA256, Prefix: []byte{0x01}}
	root := sha(append([]byte{0x01}, leafHash...))
	return proof.ExistenceProof{Key: key, Value: value, Leaf: flatLeaf, Path: []ops.InnerOp{step}}, root
}

// twoLeafBatch builds a genuine two-leaf tree (as in package proof's
// non-existence fixture) and returns existence proofs for both leaves,
// which both replay to the same root: branch0's suffix and branch1's
// prefix each supply the other leaf's hash, so both sides reconstruct the
// identical parent preimage before the shared grandparent step is applied.
func twoLeafBatch(key1, value1, key2, value2 []byte) (root []byte, e1, e2 proof.ExistenceProof) {
	leafHash1 := sha(append(append([]byte{}, key1...), value1...))
	leafHash2 := sha(append(append([]byte{}, key2...), value2...))

	branch0 := ops.InnerOp{Hash: ops.SHA256, Suffix: leafHash2}
	branch1 := ops.InnerOp{Hash: ops.SHA256, Prefix: leafHash1}
	shared := ops.InnerOp{Hash: ops.SHA256, Prefix: []byte{0xAA}}

	lcaHash := sha(append(append([]byte{}, leafHash1...), leafHash2...))
	root = sha(append([]byte{0xAA}, lcaHash...))

	e1 = proof.ExistenceProof{Key: key1, Value: value1, Leaf: flatLeaf, Path: []ops.InnerOp{branch0, shared}}
	e2 = proof.ExistenceProof{Key: key2, Value: value2, Leaf: flatLeaf, Path: []ops.InnerOp{branch1, shared}}
	return root, e1, e2
}

func TestVerifyMembership(t *testing.T) {
	e, root := oneStepExistence([]byte("k1"), []byte("v1"))
	p := CommitmentProof{Exist: &e}

	if !VerifyMembership(p, flatSpec, root, []byte("k1"), []byte("v1")) {
		t.Error("VerifyMembership() = false, want true")
	}
	if VerifyMembership(p, flatSpec, root, []byte("k1"), []byte("wrong")) {
		t.Error("VerifyMembership() with wrong value = true, want false")
	}
	if VerifyMembership(p, flatSpec, root, []byte("missing"), []byte("v1")) {
		t.Error("VerifyMembership() for a key absent from the proof = true, want false")
	}
}

func TestBatchVerifyMembership(t *testing.T) {
	root, e1, e2 := twoLeafBatch([]byte("k1"), []byte("v1"), []byte("k2"), []byte("v2"))
	p := CommitmentProof{Batch: &BatchProof{Entries: []BatchEntry{{Exist: &e1}, {Exist: &e2}}}}

	items := []KVPair{{Key: []byte("k1"), Value: []byte("v1")}, {Key: []byte("k2"), Value: []byte("v2")}}
	if !BatchVerifyMembership(p, flatSpec, root, items) {
		t.Error("BatchVerifyMembership() = false, want true")
	}

	badItems := []KVPair{{Key: []byte("k1"), Value: []byte("v1")}, {Key: []byte("missing"), Value: []byte("v1")}}
	if BatchVerifyMembership(p, flatSpec, root, badItems) {
		t.Error("BatchVerifyMembership() with one absent key = true, want false")
	}
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	root, e1, e2 := twoLeafBatch([]byte("k1"), []byte("v1"), []byte("k2"), []byte("v2"))

	batch := CommitmentProof{Batch: &BatchProof{Entries: []BatchEntry{{Exist: &e1}, {Exist: &e2}}}}
	compressed := Compress(batch)
	if compressed.Compressed == nil {
		t.Fatal("Compress() did not produce a CompressedBatchProof")
	}
	// Each entry's path is [branch, shared]; the two branch ops differ but
	// the shared grandparent step is byte-identical across both entries, so
	// the lookup table should hold 3 ops, not 4.
	if len(compressed.Compressed.LookupInners) != 3 {
		t.Errorf("LookupInners has %d entries, want 3", len(compressed.Compressed.LookupInners))
	}

	decompressed, err := Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}

	if !VerifyMembership(decompressed, flatSpec, root, []byte("k1"), []byte("v1")) {
		t.Error("VerifyMembership() on decompressed proof for k1 = false, want true")
	}
	if !VerifyMembership(decompressed, flatSpec, root, []byte("k2"), []byte("v2")) {
		t.Error("VerifyMembership() on decompressed proof for k2 = false, want true")
	}
}

func TestDecompressRejectsOutOfRangeIndex(t *testing.T) {
	bad := CommitmentProof{Compressed: &CompressedBatchProof{
		Entries: []CompressedBatchEntry{{
			Exist: &CompressedExistenceProof{Key: []byte("k"), Value: []byte("v"), Leaf: flatLeaf, Path: []int32{0}},
		}},
		LookupInners: nil,
	}}
	if _, err := Decompress(bad); err == nil {
		t.Error("expected an out-of-range lookup index to be rejected")
	}
}
