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

// Package proof replays the leaf and inner operators of a commitment proof
// to recompute a Merkle root, and verifies that recomputed root — along
// with the proof's declared shape — against a ProofSpec.
package proof

import "github.com/merkleproofs/commitproof/ops"

// ExistenceProof witnesses that (Key, Value) is committed under some root:
// Leaf hashes the pair, then Path is replayed bottom-up (Path[0] first,
// Path[len(Path)-1] last) to reach the root.
type ExistenceProof struct {
	Key   []byte
	Value []byte
	Leaf  ops.LeafOp
	Path  []ops.InnerOp
}

// NonExistenceProof witnesses that Key is absent by exhibiting its sorted
// neighbors. At least one of Left, Right must be set; both are set unless
// Key is adjacent to an edge of the tree.
type NonExistenceProof struct {
	Key   []byte
	Left  *ExistenceProof
	Right *ExistenceProof
}

// CalculateExistenceRoot replays proof's leaf and path to compute the root
// it would produce, without comparing it to anything.
func CalculateExistenceRoot(p ExistenceProof) ([]byte, error) {
	if len(p.Key) == 0 || len(p.Value) == 0 {
		return nil, &ops.Error{Kind: ops.MalformedProof, Msg: "existence proof missing key or value"}
	}
	acc, err := ops.ApplyLeaf(p.Leaf, p.Key, p.Value)
	if err != nil {
		return nil, err
	}
	for _, step := range p.Path {
		acc, err = ops.ApplyInner(step, acc)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}
