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

package proof

import (
	"bytes"
	"fmt"

	"github.com/merkleproofs/commitproof/ops"
)

// RootMismatchError is an error occurring when a proof's recomputed root
// does not match the root it was checked against.
type RootMismatchError struct {
	Computed []byte // The computed root hash.
	Expected []byte // The expected root hash.
}

// Error returns the error string for RootMismatchError.
func (e RootMismatchError) Error() string {
	return fmt.Sprintf("root hash mismatched: computed %x, expected %x", e.Computed, e.Expected)
}

func verifyMatch(computed, expected []byte) error {
	if !bytes.Equal(computed, expected) {
		return &ops.Error{Kind: ops.RootMismatch, Msg: RootMismatchError{Computed: computed, Expected: expected}.Error()}
	}
	return nil
}

// EnsureSpec checks that p's leaf operator, path depth, and every inner
// operator on the path conform to spec. It does not touch the root.
func EnsureSpec(p ExistenceProof, spec ops.ProofSpec) error {
	if err := ops.EnsureLeaf(p.Leaf, spec.LeafSpec); err != nil {
		return err
	}

	depth := len(p.Path)
	if spec.MinDepth > 0 && depth < spec.MinDepth {
		return &ops.Error{Kind: ops.SpecViolation, Msg: fmt.Sprintf("path length %d below min depth %d", depth, spec.MinDepth)}
	}
	if spec.MaxDepth > 0 && depth > spec.MaxDepth {
		return &ops.Error{Kind: ops.SpecViolation, Msg: fmt.Sprintf("path length %d above max depth %d", depth, spec.MaxDepth)}
	}

	for i, step := range p.Path {
		if err := ops.EnsureInner(step, spec.LeafSpec.Prefix, spec.InnerSpec); err != nil {
			return fmt.Errorf("path[%d]: %w", i, err)
		}
	}
	return nil
}

// VerifyExistence checks that p conforms to spec, that replaying it
// produces root, and that it witnesses exactly (key, value).
func VerifyExistence(p ExistenceProof, spec ops.ProofSpec, root, key, value []byte) error {
	if err := EnsureSpec(p, spec); err != nil {
		return err
	}
	computed, err := CalculateExistenceRoot(p)
	if err != nil {
		return err
	}
	if err := verifyMatch(computed, root); err != nil {
		return err
	}
	if !bytes.Equal(p.Key, key) {
		return &ops.Error{Kind: ops.KeyValueMismatch, Msg: fmt.Sprintf("proof key %x does not match queried key %x", p.Key, key)}
	}
	if !bytes.Equal(p.Value, value) {
		return &ops.Error{Kind: ops.KeyValueMismatch, Msg: fmt.Sprintf("proof value %x does not match queried value %x", p.Value, value)}
	}
	return nil
}

// VerifyNonExistence checks that p witnesses the absence of key under
// root: both neighbors it carries (at least one is required) verify as
// existence proofs against root, key falls strictly between them under
// spec's comparison mapping, and the neighbors are tree-adjacent to the
// position key would occupy.
func VerifyNonExistence(p NonExistenceProof, spec ops.ProofSpec, root, key []byte) error {
	var leftKey, rightKey []byte

	if p.Left != nil {
		if err := VerifyExistence(*p.Left, spec, root, p.Left.Key, p.Left.Value); err != nil {
			return err
		}
		leftKey = p.Left.Key
	}
	if p.Right != nil {
		if err := VerifyExistence(*p.Right, spec, root, p.Right.Key, p.Right.Value); err != nil {
			return err
		}
		rightKey = p.Right.Key
	}
	if leftKey == nil && rightKey == nil {
		return &ops.Error{Kind: ops.MalformedProof, Msg: "non-existence proof has neither left nor right neighbor"}
	}

	kKey, err := ops.ComparisonKey(spec, key)
	if err != nil {
		return err
	}
	if leftKey != nil {
		kLeft, err := ops.ComparisonKey(spec, leftKey)
		if err != nil {
			return err
		}
		if bytes.Compare(kLeft, kKey) >= 0 {
			return &ops.Error{Kind: ops.OrderingViolation, Msg: "left neighbor key is not strictly less than queried key"}
		}
	}
	if rightKey != nil {
		kRight, err := ops.ComparisonKey(spec, rightKey)
		if err != nil {
			return err
		}
		if bytes.Compare(kKey, kRight) >= 0 {
			return &ops.Error{Kind: ops.OrderingViolation, Msg: "right neighbor key is not strictly greater than queried key"}
		}
	}

	switch {
	case leftKey == nil:
		return ops.EnsureLeftMost(p.Right.Path, spec.InnerSpec)
	case rightKey == nil:
		return ops.EnsureRightMost(p.Left.Path, spec.InnerSpec)
	default:
		return ops.EnsureLeftNeighbor(p.Left.Path, p.Right.Path, spec.InnerSpec)
	}
}
