package accountstore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"kryprollup/smt"
	"kryprollup/types"
)

func pkh(b byte) types.PubkeyHash {
	var p types.PubkeyHash
	p[0] = b
	return p
}

func TestStoreUpdateAccountGrowsCount(t *testing.T) {
	s := NewStore()
	require.Equal(t, uint64(0), s.Count())

	s.UpdateAccount(types.NewAccount(0, pkh(1)))
	require.Equal(t, uint64(1), s.Count())

	// re-writing the same index must not double-count.
	acc := types.NewAccount(0, pkh(1))
	acc.Nonce = 5
	s.UpdateAccount(acc)
	require.Equal(t, uint64(1), s.Count())
	require.Equal(t, uint32(5), s.GetAccount(0).Nonce)
}

func TestStoreGetAccountReturnsIndependentCopy(t *testing.T) {
	s := NewStore()
	s.UpdateAccount(types.NewAccount(0, pkh(1)))

	got := s.GetAccount(0)
	got.Nonce = 99
	require.Equal(t, uint32(0), s.GetAccount(0).Nonce, "mutating the returned copy must not affect the store")
}

func TestStoreBalanceZeroCollapsesLeaf(t *testing.T) {
	s := NewStore()
	s.UpdateAccount(types.NewAccount(0, pkh(1)))
	s.UpdateBalance(0, types.NativeTokenID, 100)
	require.Equal(t, uint64(100), s.GetBalance(0, types.NativeTokenID))

	rootWithBalance := s.Root()
	s.UpdateBalance(0, types.NativeTokenID, 0)
	require.Equal(t, uint64(0), s.GetBalance(0, types.NativeTokenID))
	require.NotEqual(t, rootWithBalance, s.Root())
}

func TestStoreSnapshotRevert(t *testing.T) {
	s := NewStore()
	s.UpdateAccount(types.NewAccount(0, pkh(1)))
	s.UpdateBalance(0, types.NativeTokenID, 1000)
	snap := s.Snapshot()
	rootBefore := s.Root()

	s.UpdateBalance(0, types.NativeTokenID, 500)
	s.UpdateAccount(types.NewAccount(1, pkh(2)))
	require.NotEqual(t, rootBefore, s.Root())
	require.Equal(t, uint64(2), s.Count())

	s.RevertToSnapshot(snap)
	require.Equal(t, rootBefore, s.Root())
	require.Equal(t, uint64(1), s.Count())
	require.Equal(t, uint64(1000), s.GetBalance(0, types.NativeTokenID))
}

func TestRootWithProofMatchesFullRoot(t *testing.T) {
	full := NewStore()
	full.UpdateAccount(types.NewAccount(0, pkh(1)))
	full.UpdateBalance(0, types.NativeTokenID, 1000)
	full.UpdateAccount(types.NewAccount(1, pkh(2)))
	full.UpdateBalance(1, types.NativeTokenID, 2000)

	keys := []types.Hash{IndexKey(0), TokenKey(0, types.NativeTokenID)}
	proof, err := full.MerkleProof(keys)
	require.NoError(t, err)

	witness := NewStore()
	witness.UpdateAccount(full.GetAccount(0))
	witness.UpdateBalance(0, types.NativeTokenID, full.GetBalance(0, types.NativeTokenID))

	got, err := witness.RootWithProof(proof)
	require.NoError(t, err)
	require.Equal(t, full.Root(), got)
}

func TestAccountAndBalanceLeafDigestsMatchTreeEncoding(t *testing.T) {
	s := NewStore()
	acc := types.NewAccount(3, pkh(9))
	s.UpdateAccount(acc)
	s.UpdateBalance(3, types.NativeTokenID, 42)

	proof, err := s.MerkleProof([]types.Hash{IndexKey(3), TokenKey(3, types.NativeTokenID)})
	require.NoError(t, err)

	claimed := map[types.Hash]types.Hash{
		IndexKey(3):                      AccountLeafDigest(acc),
		TokenKey(3, types.NativeTokenID): BalanceLeafDigest(42),
	}
	root, err := smt.ComputeRootWithProof(claimed, proof)
	require.NoError(t, err)
	require.Equal(t, s.Root(), root)
}
