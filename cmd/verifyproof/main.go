// Copyright 2025 Google LLC. All Rights Reserved.
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

// Command verifyproof reads a JSON-encoded verification request and
// reports whether the enclosed commitment proof verifies. It never
// generates proofs; it is a thin front end over package commitproof.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/mod/sumdb/note"

	"github.com/merkleproofs/commitproof"
	"github.com/merkleproofs/commitproof/checkpoint"
	"github.com/merkleproofs/commitproof/ops"
)

// request is the JSON shape read from -in (or stdin): byte fields are
// base64, per encoding/json's default []byte handling.
//
// Root is normally supplied directly. If Checkpoint is set instead, it
// is resolved first via checkpoint.VerifyCheckpointedRoot (using
// VerifierKey and Origin) and its root takes the place of Root; this is
// the one place in the module where the checkpoint layer and the
// commitment-proof layer are wired together.
type request struct {
	Spec        ops.ProofSpec               `json:"spec"`
	Proof       commitproof.CommitmentProof `json:"proof"`
	Root        []byte                      `json:"root"`
	Key         []byte                      `json:"key"`
	Value       []byte                      `json:"value"`
	Checkpoint  *checkpoint.CheckpointProof `json:"checkpoint"`
	VerifierKey string                      `json:"verifierKey"`
	Origin      string                      `json:"origin"`
	// NonMembership selects VerifyNonMembership over VerifyMembership; Value
	// is ignored when set.
	NonMembership bool `json:"nonMembership"`
}

// resolveRoot returns req.Root, unless req.Checkpoint is set, in which
// case it returns the root the checkpoint commits to after verifying its
// note signature and (if present) its witness co-signatures.
func resolveRoot(req request) ([]byte, error) {
	if req.Checkpoint == nil {
		return req.Root, nil
	}
	v, err := note.NewVerifier(req.VerifierKey)
	if err != nil {
		return nil, fmt.Errorf("parsing verifier key: %w", err)
	}
	_, root, err := checkpoint.VerifyCheckpointedRoot(v, req.Origin, req.Checkpoint.Checkpoint, req.Checkpoint.WitnessPolicy)
	if err != nil {
		return nil, fmt.Errorf("resolving checkpointed root: %w", err)
	}
	return root, nil
}

func readRequest(path string) (request, error) {
	var r io.Reader
	if path == "" || path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return request{}, fmt.Errorf("opening request file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var req request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return request{}, fmt.Errorf("decoding request: %w", err)
	}
	return req, nil
}

func run(path string) (bool, error) {
	req, err := readRequest(path)
	if err != nil {
		return false, err
	}
	return runRequest(req)
}

func runRequest(req request) (bool, error) {
	root, err := resolveRoot(req)
	if err != nil {
		return false, err
	}

	cp := req.Proof
	if req.Checkpoint != nil && req.Checkpoint.Exist != nil {
		cp = commitproof.CommitmentProof{Exist: req.Checkpoint.Exist}
	}

	if req.NonMembership {
		ok := commitproof.VerifyNonMembership(cp, req.Spec, root, req.Key)
		slog.Info("non-membership verification", "key", fmt.Sprintf("%x", req.Key), "root", fmt.Sprintf("%x", root), "verified", ok)
		return ok, nil
	}

	ok := commitproof.VerifyMembership(cp, req.Spec, root, req.Key, req.Value)
	slog.Info("membership verification", "key", fmt.Sprintf("%x", req.Key), "root", fmt.Sprintf("%x", root), "verified", ok)
	return ok, nil
}

func main() {
	in := flag.String("in", "", "path to a JSON verification request (default: stdin)")
	flag.Parse()

	ok, err := run(*in)
	if err != nil {
		slog.Error("verification request failed", "err", err)
		os.Exit(2)
	}

	fmt.Println(ok)
	if !ok {
		os.Exit(1)
	}
}
