package challenge

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"kryprollup/accountstore"
	"kryprollup/secp256k1"
	"kryprollup/types"
	"kryprollup/verifier"
)

func TestVerifyCreateAnchorsToTxRoot(t *testing.T) {
	txs := []*types.Tx{{SenderIndex: 0, ToIndex: 1, Nonce: 1}}
	block := &types.Block{TxRoot: verifier.ComputeTxRoot(txs)}

	err := VerifyCreate(types.ChallengeContext{Block: block, Txs: txs})
	require.NoError(t, err)
}

func TestVerifyCreateRejectsMismatchedTxs(t *testing.T) {
	txs := []*types.Tx{{SenderIndex: 0, ToIndex: 1, Nonce: 1}}
	block := &types.Block{TxRoot: verifier.ComputeTxRoot(txs)}

	tamperedTxs := []*types.Tx{{SenderIndex: 0, ToIndex: 1, Nonce: 2}}
	err := VerifyCreate(types.ChallengeContext{Block: block, Txs: tamperedTxs})
	require.Error(t, err)
	require.Equal(t, types.CodeInvalidChallengeContext, types.CodeOf(err))
}

func TestVerifyWithdrawRequiresMaturedLock(t *testing.T) {
	cell := CellRef{
		Since: types.NewRelativeEpochSince(3),
		Args:  types.ChallengeArgs{WithdrawLockHash: types.PersonalHash([]byte("lock"))},
	}
	respond := types.WithdrawChallengeRespond{WithdrawLockHash: cell.Args.WithdrawLockHash}

	err := VerifyWithdraw(cell, respond)
	require.Error(t, err)
	require.Equal(t, types.CodeInvalidSince, types.CodeOf(err))
}

func TestVerifyWithdrawAcceptsMaturedLock(t *testing.T) {
	lockHash := types.PersonalHash([]byte("lock"))
	cell := CellRef{
		Since: types.NewRelativeEpochSince(verifier.WithdrawWaitEpochs),
		Args:  types.ChallengeArgs{WithdrawLockHash: lockHash},
	}
	respond := types.WithdrawChallengeRespond{WithdrawLockHash: lockHash}

	err := VerifyWithdraw(cell, respond)
	require.NoError(t, err)
}

func TestVerifyWithdrawRejectsWrongLockHash(t *testing.T) {
	cell := CellRef{
		Since: types.NewRelativeEpochSince(verifier.WithdrawWaitEpochs),
		Args:  types.ChallengeArgs{WithdrawLockHash: types.PersonalHash([]byte("lock"))},
	}
	respond := types.WithdrawChallengeRespond{WithdrawLockHash: types.PersonalHash([]byte("other"))}

	err := VerifyWithdraw(cell, respond)
	require.Error(t, err)
	require.Equal(t, types.CodeNoUnlockCell, types.CodeOf(err))
}

// buildInvalidChallengeFixture mirrors Scenario C's transfer, witnessed
// for all three touched accounts — the shape Scenario G's refutation
// re-executes against.
func buildInvalidChallengeFixture(t *testing.T) (types.ChallengeContext, types.InvalidChallengeRespond) {
	t.Helper()

	priv, err := crypto.GenerateKey()
	require.NoError(t, err)
	senderPkh := secp256k1.PubkeyHashOf(priv)

	store := accountstore.NewStore()
	sender := types.NewAccount(0, senderPkh)
	recipient := types.NewAccount(1, types.PubkeyHash{})
	ag := types.NewAccount(2, types.PubkeyHash{})
	store.UpdateAccount(sender)
	store.UpdateAccount(recipient)
	store.UpdateAccount(ag)
	store.UpdateBalance(0, types.NativeTokenID, 20)
	store.UpdateBalance(1, types.NativeTokenID, 100)
	store.UpdateBalance(2, types.NativeTokenID, 2000)

	keys := []types.Hash{
		accountstore.IndexKey(0), accountstore.TokenKey(0, types.NativeTokenID),
		accountstore.IndexKey(1), accountstore.TokenKey(1, types.NativeTokenID),
		accountstore.IndexKey(2), accountstore.TokenKey(2, types.NativeTokenID),
	}
	proof, err := store.MerkleProof(keys)
	require.NoError(t, err)
	prevRoot := store.Root()

	tx := &types.Tx{
		SenderIndex: 0,
		ToIndex:     1,
		Fee:         types.TokenAmount{Token: types.NativeTokenID, Amount: 3},
		Amount:      types.TokenAmount{Token: types.NativeTokenID, Amount: 15},
		Nonce:       1,
	}
	sig, err := secp256k1.Sign(priv, tx.SigningMessage())
	require.NoError(t, err)
	tx.Witness = sig
	txs := []*types.Tx{tx}

	senderAfter := sender.Copy()
	senderAfter.Nonce = 1
	store.UpdateAccount(senderAfter)
	store.UpdateBalance(0, types.NativeTokenID, 2)
	store.UpdateBalance(1, types.NativeTokenID, 115)
	store.UpdateBalance(2, types.NativeTokenID, 2003)
	newRoot := store.Root()

	block := &types.Block{
		AgIndex:         2,
		PrevAccountRoot: prevRoot,
		AccountRoot:     newRoot,
		TxRoot:          verifier.ComputeTxRoot(txs),
		TxsCount:        uint32(len(txs)),
	}

	ctx := types.ChallengeContext{Block: block, Txs: txs, ChallengerIndex: 9}
	respond := types.InvalidChallengeRespond{
		TouchedAccounts: []types.TouchedAccount{
			{Account: sender, TokenKV: map[types.TokenID]uint64{types.NativeTokenID: 20}},
			{Account: recipient, TokenKV: map[types.TokenID]uint64{types.NativeTokenID: 100}},
			{Account: ag, TokenKV: map[types.TokenID]uint64{types.NativeTokenID: 2000}},
		},
		TouchedAccountsProof: proof,
	}
	return ctx, respond
}

func TestVerifyInvalidChallengeScenarioG_Refuted(t *testing.T) {
	ctx, respond := buildInvalidChallengeFixture(t)
	err := VerifyInvalidChallenge(ctx, respond)
	require.NoError(t, err, "a block that replays cleanly must refute the challenge")
}

func TestVerifyInvalidChallengeStandsOnRootMismatch(t *testing.T) {
	ctx, respond := buildInvalidChallengeFixture(t)
	ctx.Block.AccountRoot = types.PersonalHash([]byte("tampered"))

	err := VerifyInvalidChallenge(ctx, respond)
	require.Error(t, err)
	require.Equal(t, types.CodeTryRevertValidBlock, types.CodeOf(err))
}

func TestVerifyInvalidChallengeStandsOnBadTx(t *testing.T) {
	ctx, respond := buildInvalidChallengeFixture(t)
	// An unsigned, impossible tx slipped into the cited batch: the
	// aggregator should never have included it, so the challenge stands.
	ctx.Txs = append(ctx.Txs, &types.Tx{SenderIndex: 0, ToIndex: 1, Nonce: 99})

	err := VerifyInvalidChallenge(ctx, respond)
	require.Error(t, err)
	require.Equal(t, types.CodeTryRevertValidBlock, types.CodeOf(err))
}
