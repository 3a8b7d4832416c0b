package verifier

import (
	"testing"

	"github.com/stretchr/testify/require"

	"kryprollup/accountstore"
	"kryprollup/types"
)

func TestVerifyDepositCreditsNativeBalance(t *testing.T) {
	store := accountstore.NewStore()
	acc := types.NewAccount(0, genesisPubkeyHash())
	store.UpdateAccount(acc)
	store.UpdateBalance(0, NativeTokenID, 500)

	proof, err := store.MerkleProof([]types.Hash{accountstore.IndexKey(0), accountstore.TokenKey(0, NativeTokenID)})
	require.NoError(t, err)

	old := types.GlobalState{AccountRoot: store.Root(), AccountCount: 1}

	store.UpdateBalance(0, NativeTokenID, 700)
	new := types.GlobalState{AccountRoot: store.Root(), AccountCount: 1}

	action := &types.DepositAction{
		Account: acc,
		TokenKV: map[types.TokenID]uint64{NativeTokenID: 500},
		Proof:   proof,
	}
	cell := CellContext{InputCapacity: 0, OutputCapacity: 200}

	err = verifyDeposit(old, new, cell, action)
	require.NoError(t, err)
}

func TestVerifyDepositRejectsZeroDeposit(t *testing.T) {
	acc := types.NewAccount(0, genesisPubkeyHash())
	action := &types.DepositAction{Account: acc, TokenKV: map[types.TokenID]uint64{NativeTokenID: 500}}
	cell := CellContext{InputCapacity: 100, OutputCapacity: 100}

	err := verifyDeposit(types.GlobalState{}, types.GlobalState{}, cell, action)
	require.Error(t, err)
	require.Equal(t, types.CodeInvalidDepositAmount, types.CodeOf(err))
}

func TestVerifyDepositRejectsMismatchedOldRoot(t *testing.T) {
	store := accountstore.NewStore()
	acc := types.NewAccount(0, genesisPubkeyHash())
	store.UpdateAccount(acc)
	store.UpdateBalance(0, NativeTokenID, 500)

	proof, err := store.MerkleProof([]types.Hash{accountstore.IndexKey(0), accountstore.TokenKey(0, NativeTokenID)})
	require.NoError(t, err)

	old := types.GlobalState{AccountRoot: types.PersonalHash([]byte("wrong")), AccountCount: 1}
	new := types.GlobalState{AccountCount: 1}

	action := &types.DepositAction{
		Account: acc,
		TokenKV: map[types.TokenID]uint64{NativeTokenID: 500},
		Proof:   proof,
	}
	cell := CellContext{OutputCapacity: 200}

	err = verifyDeposit(old, new, cell, action)
	require.Error(t, err)
	require.Equal(t, types.CodeInvalidAccountMerkleProof, types.CodeOf(err))
}

func TestVerifyDepositRejectsAccountCountChange(t *testing.T) {
	store := accountstore.NewStore()
	acc := types.NewAccount(0, genesisPubkeyHash())
	store.UpdateAccount(acc)
	store.UpdateBalance(0, NativeTokenID, 500)

	proof, err := store.MerkleProof([]types.Hash{accountstore.IndexKey(0), accountstore.TokenKey(0, NativeTokenID)})
	require.NoError(t, err)
	old := types.GlobalState{AccountRoot: store.Root(), AccountCount: 1}

	store.UpdateBalance(0, NativeTokenID, 700)
	new := types.GlobalState{AccountRoot: store.Root(), AccountCount: 2}

	action := &types.DepositAction{
		Account: acc,
		TokenKV: map[types.TokenID]uint64{NativeTokenID: 500},
		Proof:   proof,
	}
	cell := CellContext{OutputCapacity: 200}

	err = verifyDeposit(old, new, cell, action)
	require.Error(t, err)
	require.Equal(t, types.CodeInvalidAccountCount, types.CodeOf(err))
}
