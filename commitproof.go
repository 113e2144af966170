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

// Package commitproof verifies vector-commitment membership and
// non-membership proofs against a Merkle commitment root: IAVL-, Tendermint-
// and sparse-Merkle-shaped trees via the generic operator model in package
// ops and package proof, plus a sparse-Merkle sidecar verifier in package
// webcat. It decides whether a proof witnesses that a key maps to a value,
// or that a key is absent, in the tree committed to by a root digest.
//
// This package never generates proofs, stores trees, or talks to a
// network; it only replays the hashing a proof claims and checks the
// result.
package commitproof

import (
	"bytes"

	"github.com/merkleproofs/commitproof/ops"
	"github.com/merkleproofs/commitproof/proof"
)

// CommitmentProof is a tagged union of the four proof shapes a verifier may
// be asked to check. Exactly one field is set.
type CommitmentProof struct {
	Exist      *proof.ExistenceProof
	Nonexist   *proof.NonExistenceProof
	Batch      *BatchProof
	Compressed *CompressedBatchProof
}

// BatchEntry is one entry of a BatchProof: exactly one of Exist, Nonexist
// is set.
type BatchEntry struct {
	Exist    *proof.ExistenceProof
	Nonexist *proof.NonExistenceProof
}

// BatchProof bundles several existence/non-existence proofs that share a
// single root.
type BatchProof struct {
	Entries []BatchEntry
}

// VerifyMembership returns true iff proof contains an existence proof for
// key whose replay matches root and whose value matches value. Any
// malformed, spec-violating, or non-matching proof is reported as false;
// internal error kinds are not propagated (see package ops for those).
func VerifyMembership(p CommitmentProof, spec ops.ProofSpec, root, key, value []byte) bool {
	norm, err := Decompress(p)
	if err != nil {
		return false
	}
	e := findExistenceProof(norm, key)
	if e == nil {
		return false
	}
	return proof.VerifyExistence(*e, spec, root, key, value) == nil
}

// VerifyNonMembership returns true iff proof contains a non-existence
// proof bracketing key that replays correctly against root.
func VerifyNonMembership(p CommitmentProof, spec ops.ProofSpec, root, key []byte) bool {
	norm, err := Decompress(p)
	if err != nil {
		return false
	}
	ne := findNonExistenceProof(norm, spec, key)
	if ne == nil {
		return false
	}
	return proof.VerifyNonExistence(*ne, spec, root, key) == nil
}

// KVPair is one (key, value) item in a membership batch query.
type KVPair struct {
	Key   []byte
	Value []byte
}

// BatchVerifyMembership verifies every item against p and short-circuits
// to false as soon as one fails; it never reports partial success.
func BatchVerifyMembership(p CommitmentProof, spec ops.ProofSpec, root []byte, items []KVPair) bool {
	for _, it := range items {
		if !VerifyMembership(p, spec, root, it.Key, it.Value) {
			return false
		}
	}
	return true
}

// BatchVerifyNonMembership verifies every key's absence against p and
// short-circuits to false as soon as one fails.
func BatchVerifyNonMembership(p CommitmentProof, spec ops.ProofSpec, root []byte, keys [][]byte) bool {
	for _, k := range keys {
		if !VerifyNonMembership(p, spec, root, k) {
			return false
		}
	}
	return true
}

func findExistenceProof(p CommitmentProof, key []byte) *proof.ExistenceProof {
	if p.Exist != nil && bytes.Equal(p.Exist.Key, key) {
		return p.Exist
	}
	if p.Batch != nil {
		for _, e := range p.Batch.Entries {
			if e.Exist != nil && bytes.Equal(e.Exist.Key, key) {
				return e.Exist
			}
		}
	}
	return nil
}

// findNonExistenceProof locates the non-existence subproof whose bracket
// contains key, under spec's comparison mapping.
func findNonExistenceProof(p CommitmentProof, spec ops.ProofSpec, key []byte) *proof.NonExistenceProof {
	if p.Nonexist != nil && bracketsKey(*p.Nonexist, spec, key) {
		return p.Nonexist
	}
	if p.Batch != nil {
		for _, e := range p.Batch.Entries {
			if e.Nonexist != nil && bracketsKey(*e.Nonexist, spec, key) {
				return e.Nonexist
			}
		}
	}
	return nil
}

func bracketsKey(ne proof.NonExistenceProof, spec ops.ProofSpec, key []byte) bool {
	kKey, err := ops.ComparisonKey(spec, key)
	if err != nil {
		return false
	}
	if ne.Left != nil {
		kLeft, err := ops.ComparisonKey(spec, ne.Left.Key)
		if err != nil || bytes.Compare(kLeft, kKey) >= 0 {
			return false
		}
	}
	if ne.Right != nil {
		kRight, err := ops.ComparisonKey(spec, ne.Right.Key)
		if err != nil || bytes.Compare(kKey, kRight) >= 0 {
			return false
		}
	}
	return ne.Left != nil || ne.Right != nil
}
