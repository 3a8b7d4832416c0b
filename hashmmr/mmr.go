// SPDX-License-Identifier: MIT
// Dev: KryperAI

package hashmmr

import (
	"errors"
	"fmt"
	"sort"

	"kryprollup/types"
)

/* ========================= *
   POSITION / HEIGHT HELPERS
* ========================= */

func bitLength(n uint64) uint64 {
	var l uint64
	for n > 0 {
		l++
		n >>= 1
	}
	return l
}

func allOnes(n uint64) bool {
	if n == 0 {
		return false
	}
	return n == (uint64(1)<<bitLength(n))-1
}

func jumpLeft(pos uint64) uint64 {
	bl := bitLength(pos)
	msb := uint64(1) << (bl - 1)
	return pos - (msb - 1)
}

// posHeightInTree is the standard MMR position->height mapping
// (leaf_index_to_pos's dual): height 0 is a leaf.
func posHeightInTree(pos uint64) uint64 {
	p := pos + 1
	for !allOnes(p) {
		p = jumpLeft(p)
	}
	return bitLength(p) - 1
}

func parentOffset(height uint64) uint64 { return uint64(2) << height }
func siblingOffset(height uint64) uint64 { return (uint64(2) << height) - 1 }

// family returns (sibling position, parent position) for pos, following
// the classic binary-MMR "carry" relationship.
func family(pos uint64) (sibling, parent uint64) {
	height := posHeightInTree(pos)
	if posHeightInTree(pos+1) > height {
		// pos is the right child of its parent.
		sibling = pos - siblingOffset(height)
		parent = pos + 1
	} else {
		sibling = pos + siblingOffset(height)
		parent = pos + parentOffset(height)
	}
	return
}

func isRightChild(pos uint64) bool {
	return posHeightInTree(pos+1) > posHeightInTree(pos)
}

// getPeaks returns the peak positions of an MMR of the given size,
// ordered from the largest (leftmost, oldest) peak to the smallest
// (rightmost, newest) — the same order as the bits of the leaf count,
// MSB first.
func getPeaks(mmrSize uint64) []uint64 {
	var peaks []uint64
	var pos uint64
	sizeLeft := mmrSize
	for sizeLeft > 0 {
		peakSize := allOnesMask(sizeLeft)
		if peakSize == 0 {
			break
		}
		pos += peakSize
		peaks = append(peaks, pos-1)
		sizeLeft -= peakSize
	}
	return peaks
}

// allOnesMask returns the largest value of the form 2^h - 1 (h >= 1)
// that is <= sizeLeft, or 0 if none (sizeLeft == 0).
func allOnesMask(sizeLeft uint64) uint64 {
	for h := uint64(63); h >= 1; h-- {
		mask := uint64(1)<<h - 1
		if mask <= sizeLeft {
			return mask
		}
		if h == 1 {
			break
		}
	}
	return 0
}

func trailingOnes(n uint64) int {
	c := 0
	for n&1 == 1 {
		c++
		n >>= 1
	}
	return c
}

// bagPeaks folds a peak-hash list (MSB-first) into a single root by
// merging from the right, matching HashMerge's convention.
func bagPeaks(peaks []types.Hash) types.Hash {
	if len(peaks) == 0 {
		return types.ZeroHash()
	}
	stack := append([]types.Hash(nil), peaks...)
	for len(stack) > 1 {
		right := stack[len(stack)-1]
		left := stack[len(stack)-2]
		stack = stack[:len(stack)-2]
		stack = append(stack, Merge(right, left))
	}
	return stack[0]
}

/* ========================= *
         MMR STORE
* ========================= */

// MMR is an in-memory append-only Merkle Mountain Range over personalized
// BLAKE2b. It keeps every internal node, since it always backs a single
// off-chain owner (the aggregator mirror or a test fixture) — the
// on-chain verifier only ever sees roots and MMRProof witnesses.
type MMR struct {
	nodes map[uint64]types.Hash
	size  uint64
}

func NewMMR() *MMR {
	return &MMR{nodes: make(map[uint64]types.Hash)}
}

func (m *MMR) Size() uint64 { return m.size }

// LeafCount is the number of leaves pushed so far, derived from size via
// the peak decomposition (mirrors leaf_index_to_mmr_size's inverse).
func (m *MMR) LeafCount() uint64 {
	count := uint64(0)
	for _, p := range getPeaks(m.size) {
		h := posHeightInTree(p)
		count += uint64(1) << h
	}
	return count
}

// Push appends a leaf and returns its position.
func (m *MMR) Push(leaf types.Hash) uint64 {
	pos := m.size
	elems := []types.Hash{leaf}
	height := uint64(0)
	posCur := pos

	for posHeightInTree(posCur+1) > height {
		posCur++
		leftPos := posCur - parentOffset(height)
		rightPos := leftPos + siblingOffset(height)
		leftElem := m.lookupStaged(elems, pos, leftPos)
		rightElem := m.lookupStaged(elems, pos, rightPos)
		elems = append(elems, Merge(leftElem, rightElem))
		height++
	}

	for i, e := range elems {
		m.nodes[pos+uint64(i)] = e
	}
	m.size += uint64(len(elems))
	return pos
}

func (m *MMR) lookupStaged(staged []types.Hash, base, target uint64) types.Hash {
	if target >= base && target-base < uint64(len(staged)) {
		return staged[target-base]
	}
	return m.nodes[target]
}

// Root returns the current bagged-peaks root.
func (m *MMR) Root() (types.Hash, error) {
	if m.size == 0 {
		return types.ZeroHash(), errors.New("mmr: empty")
	}
	return bagPeaks(m.Peaks()), nil
}

// Peaks returns the current peak hashes, MSB-first.
func (m *MMR) Peaks() []types.Hash {
	positions := getPeaks(m.size)
	out := make([]types.Hash, len(positions))
	for i, p := range positions {
		out[i] = m.nodes[p]
	}
	return out
}

/* ========================= *
      POSITION-BASED PROOFS
* ========================= */

// walkToRoot is the single traversal both GenProof and VerifyRoot share:
// climb every requested (known) position to its peak, merging with
// siblings pulled from `known` when available or from `revealAt`
// otherwise, then bag whatever peaks remain unresolved the same way.
// Because the traversal order depends only on mmrSize and the set of
// positions (never on the hash values), GenProof and VerifyRoot always
// visit positions in the same sequence and so consume/produce proof
// items in the same order.
func walkToRoot(mmrSize uint64, known map[uint64]types.Hash, positions []uint64, revealAt func(pos uint64) (types.Hash, error)) (types.Hash, error) {
	peaks := getPeaks(mmrSize)
	peakSet := make(map[uint64]bool, len(peaks))
	for _, p := range peaks {
		peakSet[p] = true
	}

	sorted := append([]uint64(nil), positions...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	for _, lp := range sorted {
		pos := lp
		for !peakSet[pos] {
			sib, parent := family(pos)
			sibHash, ok := known[sib]
			if !ok {
				h, err := revealAt(sib)
				if err != nil {
					return types.Hash{}, err
				}
				sibHash = h
				known[sib] = h
			}
			curHash, ok := known[pos]
			if !ok {
				return types.Hash{}, fmt.Errorf("mmr: position %d not derivable", pos)
			}
			var parentHash types.Hash
			if isRightChild(pos) {
				parentHash = Merge(sibHash, curHash)
			} else {
				parentHash = Merge(curHash, sibHash)
			}
			known[parent] = parentHash
			pos = parent
		}
	}

	peakHashes := make([]types.Hash, len(peaks))
	for i, p := range peaks {
		h, ok := known[p]
		if !ok {
			var err error
			h, err = revealAt(p)
			if err != nil {
				return types.Hash{}, err
			}
			known[p] = h
		}
		peakHashes[i] = h
	}
	return bagPeaks(peakHashes), nil
}

// GenProof builds an MMRProof witnessing inclusion of every position in
// `positions` (may be empty, meaning "just reveal enough to rebuild the
// root from nothing", the form chainstore uses for append proofs).
func (m *MMR) GenProof(positions []uint64) (types.MMRProof, error) {
	known := make(map[uint64]types.Hash, len(positions))
	for _, p := range positions {
		h, ok := m.nodes[p]
		if !ok {
			return types.MMRProof{}, fmt.Errorf("mmr: unknown leaf position %d", p)
		}
		known[p] = h
	}

	var items []types.Hash
	revealAt := func(pos uint64) (types.Hash, error) {
		h, ok := m.nodes[pos]
		if !ok {
			return types.Hash{}, fmt.Errorf("mmr: missing node at position %d", pos)
		}
		items = append(items, h)
		return h, nil
	}

	if _, err := walkToRoot(m.size, known, positions, revealAt); err != nil {
		return types.MMRProof{}, err
	}
	return types.MMRProof{MMRSize: m.size, Items: items}, nil
}

// VerifyRoot recomputes the root a proof attests to for the given
// claimed (position -> hash) leaves. It fails if the proof carries
// extra, unconsumed items (a malleability/padding guard) or runs dry.
func VerifyRoot(leaves map[uint64]types.Hash, proof types.MMRProof) (types.Hash, error) {
	known := make(map[uint64]types.Hash, len(leaves))
	positions := make([]uint64, 0, len(leaves))
	for p, h := range leaves {
		known[p] = h
		positions = append(positions, p)
	}

	idx := 0
	revealAt := func(uint64) (types.Hash, error) {
		if idx >= len(proof.Items) {
			return types.Hash{}, errors.New("mmr: proof exhausted")
		}
		h := proof.Items[idx]
		idx++
		return h, nil
	}

	root, err := walkToRoot(proof.MMRSize, known, positions, revealAt)
	if err != nil {
		return types.Hash{}, err
	}
	if idx != len(proof.Items) {
		return types.Hash{}, errors.New("mmr: proof has unconsumed items")
	}
	return root, nil
}

/* ========================= *
     APPEND-ONLY ROOT MATH
* ========================= */

// AppendPeaks computes the new peak list after appending newLeaf to a
// tree that had oldLeafCount leaves and the given old peaks (MSB-first).
// This is the MMR analogue of binary-counter carry propagation: the
// trailing run of set bits in oldLeafCount tells you exactly how many
// rightmost peaks merge away into one new, taller peak.
func AppendPeaks(oldLeafCount uint64, oldPeaks []types.Hash, newLeaf types.Hash) []types.Hash {
	merges := trailingOnes(oldLeafCount)
	if merges > len(oldPeaks) {
		merges = len(oldPeaks)
	}
	node := newLeaf
	n := len(oldPeaks)
	for i := 0; i < merges; i++ {
		node = Merge(oldPeaks[n-1-i], node)
	}
	newPeaks := append(append([]types.Hash(nil), oldPeaks[:n-merges]...), node)
	return newPeaks
}

// PeaksRoot bags a peak list into its root, exported for callers (the
// verifier) that only ever see peak hashes, never full trees.
func PeaksRoot(peaks []types.Hash) types.Hash {
	return bagPeaks(peaks)
}

// LeafIndexToPos maps a 0-based leaf index to its MMR position, the
// same mapping Push implicitly produces. Pushing the i-th leaf (onto a
// tree that already holds i leaves) adds 1 + trailingOnes(i) nodes, so
// the position is just the running total of that, computed without
// touching any hash.
func LeafIndexToPos(index uint64) uint64 {
	var pos uint64
	for i := uint64(0); i < index; i++ {
		pos += 1 + uint64(trailingOnes(i))
	}
	return pos
}
