// SPDX-License-Identifier: MIT
// Dev: KryperAI

package smt

import (
	"errors"
	"fmt"

	"kryprollup/hashmmr"
	"kryprollup/types"
)

// GenProof builds a compressed multi-leaf proof for keys, which may
// include keys the tree holds no leaf for (a non-membership proof: the
// verifier supplies the zero digest for those and the root still
// checks out). leavesPath echoes the queried keys, in the same order,
// so ComputeRootWithProof knows which value belongs to which key.
func (t *Tree) GenProof(keys []types.Hash) (types.SMTProof, error) {
	leavesPath := make([][]byte, len(keys))
	for i, k := range keys {
		kk := k
		leavesPath[i] = append([]byte(nil), kk[:]...)
	}
	var branches []types.SMTBranch
	if _, err := genSubtree(TreeHeight, t.sortedLeaves(), append([]types.Hash(nil), keys...), &branches); err != nil {
		return types.SMTProof{}, err
	}
	return types.SMTProof{LeavesPath: leavesPath, Branches: branches}, nil
}

// genSubtree mirrors computeSubtreeRoot but also threads the queried
// key set down in lockstep with the real leaves. Whenever a subtree
// holds none of the queried keys, its whole root is revealed as a
// branch instead of being recursed into — the proof only ever costs
// one hash per untouched sibling, regardless of how deep it is.
func genSubtree(height int, leaves []leaf, query []types.Hash, branches *[]types.SMTBranch) (types.Hash, error) {
	if len(query) == 0 {
		root := computeSubtreeRoot(height, leaves)
		*branches = append(*branches, types.SMTBranch{Node: root, Height: uint8(height)})
		return root, nil
	}
	if height == 0 {
		switch len(leaves) {
		case 0:
			return types.ZeroHash(), nil
		case 1:
			return leafNodeHash(leaves[0].key, leaves[0].value), nil
		default:
			return types.Hash{}, errors.New("smt: key collision at leaf level")
		}
	}

	var leftLeaves, rightLeaves []leaf
	for _, l := range leaves {
		if keyBit(l.key, height) == 0 {
			leftLeaves = append(leftLeaves, l)
		} else {
			rightLeaves = append(rightLeaves, l)
		}
	}
	var leftQuery, rightQuery []types.Hash
	for _, k := range query {
		if keyBit(k, height) == 0 {
			leftQuery = append(leftQuery, k)
		} else {
			rightQuery = append(rightQuery, k)
		}
	}

	lh, err := genSubtree(height-1, leftLeaves, leftQuery, branches)
	if err != nil {
		return types.Hash{}, err
	}
	rh, err := genSubtree(height-1, rightLeaves, rightQuery, branches)
	if err != nil {
		return types.Hash{}, err
	}
	return hashmmr.Merge(lh, rh), nil
}

// ComputeRootWithProof recomputes the tree root a proof attests to,
// given the caller's claimed digest for every key in proof.LeavesPath
// (callers that want to prove an update pass the NEW digests here —
// the proof only carries untouched siblings, so it is valid for both
// the old and the new value set, the "update under proof" property).
func ComputeRootWithProof(claimed map[types.Hash]types.Hash, proof types.SMTProof) (types.Hash, error) {
	query := make([]types.Hash, 0, len(proof.LeavesPath))
	for _, kb := range proof.LeavesPath {
		if len(kb) != 32 {
			return types.Hash{}, fmt.Errorf("smt: malformed leaf path entry (%d bytes)", len(kb))
		}
		var k types.Hash
		copy(k[:], kb)
		query = append(query, k)
	}

	idx := 0
	root, err := verifySubtree(TreeHeight, query, claimed, proof.Branches, &idx)
	if err != nil {
		return types.Hash{}, err
	}
	if idx != len(proof.Branches) {
		return types.Hash{}, errors.New("smt: proof has unconsumed branches")
	}
	return root, nil
}

func verifySubtree(height int, query []types.Hash, claimed map[types.Hash]types.Hash, branches []types.SMTBranch, idx *int) (types.Hash, error) {
	if len(query) == 0 {
		if *idx >= len(branches) {
			return types.Hash{}, errors.New("smt: proof exhausted")
		}
		b := branches[*idx]
		if int(b.Height) != height {
			return types.Hash{}, fmt.Errorf("smt: branch height mismatch (want %d, got %d)", height, b.Height)
		}
		*idx++
		return b.Node, nil
	}
	if height == 0 {
		if len(query) != 1 {
			return types.Hash{}, errors.New("smt: ambiguous query at leaf level")
		}
		if v, ok := claimed[query[0]]; ok {
			if v.IsZero() {
				return types.ZeroHash(), nil
			}
			return leafNodeHash(query[0], v), nil
		}
		return types.ZeroHash(), nil
	}

	var leftQuery, rightQuery []types.Hash
	for _, k := range query {
		if keyBit(k, height) == 0 {
			leftQuery = append(leftQuery, k)
		} else {
			rightQuery = append(rightQuery, k)
		}
	}
	lh, err := verifySubtree(height-1, leftQuery, claimed, branches, idx)
	if err != nil {
		return types.Hash{}, err
	}
	rh, err := verifySubtree(height-1, rightQuery, claimed, branches, idx)
	if err != nil {
		return types.Hash{}, err
	}
	// An all-empty subtree is the zero hash, as in computeSubtreeRoot.
	if lh.IsZero() && rh.IsZero() {
		return types.ZeroHash(), nil
	}
	return hashmmr.Merge(lh, rh), nil
}
