package chainstore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"kryprollup/hashmmr"
	"kryprollup/types"
)

func block(n uint64) *types.Block {
	return &types.Block{Number: n, TxRoot: types.PersonalHash([]byte{byte(n)})}
}

func TestStoreSubmitAndGetBlock(t *testing.T) {
	s := NewStore()
	require.Nil(t, s.GetBlock(0))

	s.Submit(block(0))
	require.Equal(t, uint64(0), block(0).Number)
	got := s.GetBlock(0)
	require.NotNil(t, got)
	require.Equal(t, uint64(1), s.BlockCount())
}

func TestStoreSetAndGetTxs(t *testing.T) {
	s := NewStore()
	s.Submit(block(0))
	require.Nil(t, s.GetTxs(0))

	txs := []*types.Tx{{SenderIndex: 1, ToIndex: 2, Amount: types.TokenAmount{Amount: 10}}}
	s.SetTxs(0, txs)
	require.Equal(t, txs, s.GetTxs(0))
}

func TestStoreRootEmptyIsZero(t *testing.T) {
	s := NewStore()
	root, err := s.Root()
	require.NoError(t, err)
	require.True(t, root.IsZero())
}

func TestStoreProofInclusion(t *testing.T) {
	s := NewStore()
	for i := uint64(0); i < 5; i++ {
		s.Submit(block(i))
	}
	root, err := s.Root()
	require.NoError(t, err)

	proof, err := s.Proof(3)
	require.NoError(t, err)

	got, err := hashmmr.VerifyRoot(map[uint64]types.Hash{hashmmr.LeafIndexToPos(3): block(3).Hash()}, proof)
	require.NoError(t, err)
	require.Equal(t, root, got)
}

func TestStoreProofForAppendMatchesAppendPeaks(t *testing.T) {
	s := NewStore()
	for i := uint64(0); i < 6; i++ {
		s.Submit(block(i))
	}
	oldLeafCount := s.LeafCount()
	oldPeaks := s.Peaks()

	newBlock := block(6)
	s.Submit(newBlock)
	wantRoot, err := s.Root()
	require.NoError(t, err)

	gotPeaks := hashmmr.AppendPeaks(oldLeafCount, oldPeaks, newBlock.Hash())
	gotRoot := hashmmr.PeaksRoot(gotPeaks)
	require.Equal(t, wantRoot, gotRoot)
}

func TestStoreProofForAppendOnEmptyChain(t *testing.T) {
	s := NewStore()
	proof, err := s.ProofForAppend()
	require.NoError(t, err)
	require.Empty(t, proof.Items)
	require.Equal(t, uint64(0), proof.MMRSize)
}
