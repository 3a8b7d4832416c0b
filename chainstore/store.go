// SPDX-License-Identifier: MIT
// Dev: KryperAI

// Package chainstore is the off-chain mirror of the on-chain block MMR
// (C4): it keeps every submitted block plus the append-only MMR that
// commits to their hashes.
package chainstore

import (
	"fmt"

	"kryprollup/hashmmr"
	"kryprollup/types"
)

type Store struct {
	mmr      *hashmmr.MMR
	blocks   map[uint64]*types.Block
	blockTxs map[uint64][]*types.Tx
	leafPos  map[uint64]uint64 // block number -> mmr position
}

func NewStore() *Store {
	return &Store{
		mmr:      hashmmr.NewMMR(),
		blocks:   make(map[uint64]*types.Block),
		blockTxs: make(map[uint64][]*types.Tx),
		leafPos:  make(map[uint64]uint64),
	}
}

// Submit appends a block to the chain, returning its MMR position.
func (s *Store) Submit(block *types.Block) uint64 {
	pos := s.mmr.Push(block.Hash())
	s.blocks[block.Number] = block
	s.leafPos[block.Number] = pos
	return pos
}

// SetTxs records the txs a submitted block actually applied, so a
// challenger deciding whether to dispute it has something to
// re-execute — the tx_root alone doesn't recover them.
func (s *Store) SetTxs(number uint64, txs []*types.Tx) {
	s.blockTxs[number] = txs
}

func (s *Store) GetBlock(number uint64) *types.Block {
	return s.blocks[number]
}

func (s *Store) GetTxs(number uint64) []*types.Tx {
	return s.blockTxs[number]
}

// BlockCount is the number of blocks submitted so far.
func (s *Store) BlockCount() uint64 {
	return s.mmr.LeafCount()
}

func (s *Store) Root() (types.Hash, error) {
	if s.mmr.Size() == 0 {
		return types.ZeroHash(), nil
	}
	return s.mmr.Root()
}

// Proof proves inclusion of an already-submitted block by number,
// for use in RevertBlock (§4.6.4): the same branches recompute either
// the old root (with the original block hash) or the new root (with
// the reverted block's hash), at the caller's choice.
func (s *Store) Proof(number uint64) (types.MMRProof, error) {
	pos, ok := s.leafPos[number]
	if !ok {
		return types.MMRProof{}, fmt.Errorf("chainstore: unknown block %d", number)
	}
	return s.mmr.GenProof([]uint64{pos})
}

// ProofForAppend opens the current root into its peak decomposition,
// the witness SubmitBlock needs to derive the new root after appending
// one more block (§4.6.3). On an empty chain this is the (legitimately
// empty) proof that old.block_root == 0x00..00.
func (s *Store) ProofForAppend() (types.MMRProof, error) {
	return s.mmr.GenProof(nil)
}

// LeafCount exposes the pre-append leaf count hashmmr.AppendPeaks needs
// to know how many of the current peaks get merged into the new one.
func (s *Store) LeafCount() uint64 {
	return s.mmr.LeafCount()
}

// Peaks exposes the current peak hashes, the other half of what
// hashmmr.AppendPeaks needs.
func (s *Store) Peaks() []types.Hash {
	return s.mmr.Peaks()
}
