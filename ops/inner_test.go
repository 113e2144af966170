package ops

import (
	"encoding/hex"
	"testing"
)

// TestApplyInner checks seed scenario S2: a single inner step over a raw
// child hash.
func TestApplyInner(t *testing.T) {
	op := InnerOp{Hash: SHA256, Prefix: dh(t, "0123456789"), Suffix: dh(t, "deadbeef")}
	child := dh(t, "00cafe00")
	got, err := ApplyInner(op, child)
	if err != nil {
		t.Fatalf("ApplyInner: %v", err)
	}
	want := dh(t, "0339f76086684506a6d42a60da4b5a719febd4d96d8b8d85ae92849e3a849a5e")
	if hex.EncodeToString(got) != hex.EncodeToString(want) {
		t.Errorf("ApplyInner() = %x, want %x", got, want)
	}
}

// TestLeafThenInner checks seed scenario S3: the leaf from S1, fed through
// one inner step.
func TestLeafThenInner(t *testing.T) {
	leaf, err := ApplyLeaf(LeafOp{Hash: SHA256, Length: VarProto}, []byte("food"), []byte("some longer text"))
	if err != nil {
		t.Fatalf("ApplyLeaf: %v", err)
	}
	inner := InnerOp{Hash: SHA256, Prefix: dh(t, "deadbeef00cafe00")}
	got, err := ApplyInner(inner, leaf)
	if err != nil {
		t.Fatalf("ApplyInner: %v", err)
	}
	want := dh(t, "836ea236a6902a665c2a004c920364f24cad52ded20b1e4f22c3179bfe25b2a9")
	if hex.EncodeToString(got) != hex.EncodeToString(want) {
		t.Errorf("chained hash = %x, want %x", got, want)
	}
}

func TestApplyInnerMissingChild(t *testing.T) {
	if _, err := ApplyInner(InnerOp{Hash: SHA256}, nil); err == nil {
		t.Error("expected error for missing child")
	}
}

func TestEnsureInnerRejectsLeafPrefixCollision(t *testing.T) {
	spec := InnerSpec{ChildOrder: []int{0, 1}, ChildSize: 32, MinPrefixLen: 1, MaxPrefixLen: 1, Hash: SHA256}
	leafPrefix := []byte{0x00}
	op := InnerOp{Hash: SHA256, Prefix: []byte{0x00, 0x02}}
	if err := EnsureInner(op, leafPrefix, spec); err == nil {
		t.Error("expected SpecViolation for prefix colliding with leaf prefix")
	}
}

func TestEnsureInnerPrefixBounds(t *testing.T) {
	spec := InnerSpec{ChildOrder: []int{0, 1}, ChildSize: 32, MinPrefixLen: 1, MaxPrefixLen: 1, Hash: SHA256}
	leafPrefix := []byte{0xff}

	// Within bounds: 1 byte prefix plus up to 1 sibling child (32 bytes) = max 33.
	ok := InnerOp{Hash: SHA256, Prefix: make([]byte, 33)}
	if err := EnsureInner(ok, leafPrefix, spec); err != nil {
		t.Errorf("expected prefix of 33 bytes to be within bounds: %v", err)
	}

	tooLong := InnerOp{Hash: SHA256, Prefix: make([]byte, 34)}
	if err := EnsureInner(tooLong, leafPrefix, spec); err == nil {
		t.Error("expected SpecViolation for over-long prefix")
	}
}

func TestOrderFromPaddingAndLeftRightMost(t *testing.T) {
	spec := InnerSpec{ChildOrder: []int{0, 1}, ChildSize: 4, MinPrefixLen: 1, MaxPrefixLen: 1, Hash: SHA256}

	left := InnerOp{Hash: SHA256, Prefix: make([]byte, 1), Suffix: make([]byte, 4)}
	right := InnerOp{Hash: SHA256, Prefix: make([]byte, 5), Suffix: make([]byte, 0)}

	b, err := OrderFromPadding(left, spec)
	if err != nil || b != 0 {
		t.Errorf("OrderFromPadding(left) = %d, %v; want 0, nil", b, err)
	}
	b, err = OrderFromPadding(right, spec)
	if err != nil || b != 1 {
		t.Errorf("OrderFromPadding(right) = %d, %v; want 1, nil", b, err)
	}

	if err := EnsureLeftMost([]InnerOp{left, left}, spec); err != nil {
		t.Errorf("EnsureLeftMost: %v", err)
	}
	if err := EnsureLeftMost([]InnerOp{right}, spec); err == nil {
		t.Error("expected EnsureLeftMost to reject a rightmost step")
	}
	if err := EnsureRightMost([]InnerOp{right, right}, spec); err != nil {
		t.Errorf("EnsureRightMost: %v", err)
	}
	if err := EnsureRightMost([]InnerOp{left}, spec); err == nil {
		t.Error("expected EnsureRightMost to reject a leftmost step")
	}
}

func TestEnsureLeftNeighbor(t *testing.T) {
	spec := InnerSpec{ChildOrder: []int{0, 1}, ChildSize: 4, MinPrefixLen: 1, MaxPrefixLen: 1, Hash: SHA256}

	// A shared ancestor step (same prefix/suffix on both sides), below
	// which the paths diverge at their lowest common ancestor: the left
	// neighbor takes branch 0, the right neighbor takes branch 1 — the two
	// branches must be consecutive, left lower than right.
	shared := InnerOp{Hash: SHA256, Prefix: []byte{0x09}, Suffix: make([]byte, 4)}
	branch0 := InnerOp{Hash: SHA256, Prefix: make([]byte, 1), Suffix: make([]byte, 4)} // leftmost padding
	branch1 := InnerOp{Hash: SHA256, Prefix: make([]byte, 5), Suffix: nil}             // rightmost padding

	t.Run("consecutive siblings verify", func(t *testing.T) {
		left := []InnerOp{branch0, shared}
		right := []InnerOp{branch1, shared}
		if err := EnsureLeftNeighbor(left, right, spec); err != nil {
			t.Errorf("EnsureLeftNeighbor: %v", err)
		}
	})

	t.Run("swapped branches are rejected", func(t *testing.T) {
		left := []InnerOp{branch1, shared}
		right := []InnerOp{branch0, shared}
		if err := EnsureLeftNeighbor(left, right, spec); err == nil {
			t.Error("expected ordering violation for non-consecutive (swapped) branches")
		}
	})
}
