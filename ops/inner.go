package ops

import "bytes"

// InnerOp represents one step up the tree: combining a child hash with a
// fixed prefix and suffix (which typically embed sibling hashes) and
// hashing the result.
type InnerOp struct {
	Hash   HashOp
	Prefix []byte
	Suffix []byte
}

// ApplyInner computes the parent digest for child under op:
// doHash(op.Hash, op.Prefix || child || op.Suffix).
func ApplyInner(op InnerOp, child []byte) ([]byte, error) {
	if len(child) == 0 {
		return nil, newErr(MalformedProof, "missing child")
	}
	preimage := make([]byte, 0, len(op.Prefix)+len(child)+len(op.Suffix))
	preimage = append(preimage, op.Prefix...)
	preimage = append(preimage, child...)
	preimage = append(preimage, op.Suffix...)
	return doHash(op.Hash, preimage)
}

// InnerSpec pins the branching layout of inner nodes: how many children a
// node has, in what serialization order, and how much of an InnerOp's
// prefix/suffix is attributable to sibling children at each branch
// position.
type InnerSpec struct {
	ChildOrder    []int
	ChildSize     int
	MinPrefixLen  int
	MaxPrefixLen  int
	EmptyChild    []byte
	Hash          HashOp
}

// getPosition returns the index of value b within order, which must be a
// permutation of 0..len(order)-1.
func getPosition(order []int, b int) (int, error) {
	for i, v := range order {
		if v == b {
			return i, nil
		}
	}
	return 0, newErr(SpecViolation, "branch %d not found in child order %v", b, order)
}

// EnsureInner checks that op could only have been produced by a branch of
// a tree matching spec: its hash matches, its prefix doesn't collide with
// the leaf prefix (which would let a forged proof pass an inner node off
// as a leaf or vice versa), and its prefix length falls within the bounds
// implied by spec once sibling-child padding is accounted for.
func EnsureInner(op InnerOp, leafPrefix []byte, spec InnerSpec) error {
	if op.Hash != spec.Hash {
		return newErr(SpecViolation, "inner hash op %v does not match spec %v", op.Hash, spec.Hash)
	}
	if bytes.HasPrefix(op.Prefix, leafPrefix) && len(leafPrefix) > 0 {
		return newErr(SpecViolation, "inner op prefix starts with leaf prefix, possible collision")
	}

	maxLeftChildren := len(spec.ChildOrder) - 1
	maxPrefix := spec.MaxPrefixLen + maxLeftChildren*spec.ChildSize
	if len(op.Prefix) < spec.MinPrefixLen || len(op.Prefix) > maxPrefix {
		return newErr(SpecViolation, "inner prefix length %d outside [%d,%d]", len(op.Prefix), spec.MinPrefixLen, maxPrefix)
	}
	return nil
}

// paddingSignature is the expected (minPrefix, maxPrefix, suffix) triple an
// InnerOp must satisfy to be recognized as occupying branch b of spec.
type paddingSignature struct {
	minPrefix int
	maxPrefix int
	suffix    int
}

func branchPadding(spec InnerSpec, b int) (paddingSignature, error) {
	idx, err := getPosition(spec.ChildOrder, b)
	if err != nil {
		return paddingSignature{}, err
	}
	fromSiblings := idx * spec.ChildSize
	return paddingSignature{
		minPrefix: fromSiblings + spec.MinPrefixLen,
		maxPrefix: fromSiblings + spec.MaxPrefixLen,
		suffix:    (len(spec.ChildOrder) - 1 - idx) * spec.ChildSize,
	}, nil
}

// hasPadding reports whether op's prefix/suffix lengths match branch b's
// padding signature under spec.
func hasPadding(op InnerOp, spec InnerSpec, b int) (bool, error) {
	sig, err := branchPadding(spec, b)
	if err != nil {
		return false, err
	}
	return len(op.Prefix) >= sig.minPrefix && len(op.Prefix) <= sig.maxPrefix && len(op.Suffix) == sig.suffix, nil
}

// OrderFromPadding returns the unique branch b whose padding signature
// matches op's prefix/suffix lengths under spec, or a SpecViolation if no
// branch matches.
func OrderFromPadding(op InnerOp, spec InnerSpec) (int, error) {
	for _, b := range spec.ChildOrder {
		ok, err := hasPadding(op, spec, b)
		if err != nil {
			return 0, err
		}
		if ok {
			return b, nil
		}
	}
	return 0, newErr(SpecViolation, "no branch padding matches inner op (prefix=%d, suffix=%d)", len(op.Prefix), len(op.Suffix))
}

// EnsureLeftMost requires every step of path to have padding for branch 0,
// i.e. the path hugs the left edge of the tree.
func EnsureLeftMost(path []InnerOp, spec InnerSpec) error {
	for i, op := range path {
		ok, err := hasPadding(op, spec, 0)
		if err != nil {
			return err
		}
		if !ok {
			return newErr(OrderingViolation, "path[%d] does not have leftmost padding", i)
		}
	}
	return nil
}

// EnsureRightMost requires every step of path to have padding for the
// highest branch, i.e. the path hugs the right edge of the tree.
func EnsureRightMost(path []InnerOp, spec InnerSpec) error {
	last := len(spec.ChildOrder) - 1
	for i, op := range path {
		ok, err := hasPadding(op, spec, last)
		if err != nil {
			return err
		}
		if !ok {
			return newErr(OrderingViolation, "path[%d] does not have rightmost padding", i)
		}
	}
	return nil
}

// EnsureLeftNeighbor verifies that left and right are the two closest
// existence paths bracketing an absent key: below their lowest common
// ancestor, left's path hugs the right edge and right's path hugs the left
// edge, and the two children of the LCA are consecutive branches.
//
// left and right are bottom-up (path[0] applied first); this walks them
// from the root end down, so it iterates both slices in reverse.
func EnsureLeftNeighbor(left, right []InnerOp, spec InnerSpec) error {
	// Copy as stacks so we can pop from the root-most (last) element.
	ls := append([]InnerOp(nil), left...)
	rs := append([]InnerOp(nil), right...)

	for len(ls) > 0 && len(rs) > 0 {
		lTop, rTop := ls[len(ls)-1], rs[len(rs)-1]
		if !bytes.Equal(lTop.Prefix, rTop.Prefix) || !bytes.Equal(lTop.Suffix, rTop.Suffix) {
			break
		}
		ls = ls[:len(ls)-1]
		rs = rs[:len(rs)-1]
	}

	if len(ls) == 0 || len(rs) == 0 {
		return newErr(OrderingViolation, "left and right paths never diverge")
	}

	lTop, rTop := ls[len(ls)-1], rs[len(rs)-1]
	lBranch, err := OrderFromPadding(lTop, spec)
	if err != nil {
		return err
	}
	rBranch, err := OrderFromPadding(rTop, spec)
	if err != nil {
		return err
	}
	if rBranch != lBranch+1 {
		return newErr(OrderingViolation, "divergent branches %d and %d are not consecutive siblings", lBranch, rBranch)
	}

	if err := EnsureRightMost(ls[:len(ls)-1], spec); err != nil {
		return err
	}
	if err := EnsureLeftMost(rs[:len(rs)-1], spec); err != nil {
		return err
	}
	return nil
}
