// Copyright 2025 The Tessera authors. All Rights Reserved.
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

// Package checkpoint resolves a signed checkpoint into a trusted
// (size, root) pair that the root package's existence/non-existence
// verifiers can be run against. It never replays a commitment proof
// itself; it only answers "is this root note-signed and, if a witness
// policy is given, witness-cosigned".
package checkpoint

import (
	"fmt"

	"github.com/transparency-dev/formats/log"
	"github.com/transparency-dev/merkle/witness"
	"golang.org/x/mod/sumdb/note"

	"github.com/merkleproofs/commitproof/ops"
	"github.com/merkleproofs/commitproof/proof"
)

// CheckpointProof bundles a signed checkpoint, its optional witness
// co-signature policy, and the commitment-proof existence leaf a caller
// wants authenticated under that checkpoint's root. It is a pure data
// carrier: this package never resolves it itself (VerifyCheckpointedRoot
// only ever returns a root; it is the caller's job to feed that root into
// proof.VerifyExistence or the root package's VerifyMembership), so that
// the checkpoint layer and the commitment-proof layer stay decoupled.
type CheckpointProof struct {
	Checkpoint    []byte
	WitnessPolicy []byte
	Exist         *proof.ExistenceProof
}

// VerifyCheckpointedRoot parses checkpoint as a note signed by v under
// origin, and — if witnessPolicy is non-nil — additionally requires that
// the policy's witness group is satisfied by the checkpoint's
// cosignatures. On success it returns the tree size and root hash the
// checkpoint commits to.
func VerifyCheckpointedRoot(v note.Verifier, origin string, checkpointBytes, witnessPolicy []byte) (uint64, []byte, error) {
	ckpt, _, _, err := log.ParseCheckpoint(checkpointBytes, origin, v)
	if err != nil {
		return 0, nil, &ops.Error{Kind: ops.SpecViolation, Msg: fmt.Sprintf("checkpoint note signature invalid: %v", err)}
	}

	if witnessPolicy != nil {
		wg, err := witness.NewWitnessGroupFromPolicy(witnessPolicy)
		if err != nil {
			return 0, nil, &ops.Error{Kind: ops.SpecViolation, Msg: fmt.Sprintf("invalid witness policy: %v", err)}
		}
		if !wg.Satisfied(checkpointBytes) {
			return 0, nil, &ops.Error{Kind: ops.SpecViolation, Msg: "checkpoint not satisfied by witness policy"}
		}
	}

	return ckpt.Size, ckpt.Hash, nil
}
