// SPDX-License-Identifier: MIT
// Dev: KryperAI

// Package challenge implements the challenge cell's own type-script
// rule (§4.8, C8): a small side-contract that lets anyone post a bond
// accusing a submitted block of an invalid tx, and that resolves via
// one of three mutually-exclusive transitions — Create, WithdrawChallenge,
// or InvalidChallenge — grounded the same way verifier's action rules
// are, as pure functions over witness-supplied state.
package challenge

import (
	"kryprollup/accountstore"
	"kryprollup/executor"
	"kryprollup/types"
	"kryprollup/verifier"
)

// CellRef is the minimal base-chain fact this package's checks need
// about the input that spends the challenge cell: its "since" lock and
// the cell's own pinned args.
type CellRef struct {
	Since types.Since
	Args  types.ChallengeArgs
}

// VerifyCreate checks §4.8a: a challenge cell may only be created
// anchored to a block it can actually cite — its claimed txs must hash
// to the accused block's own tx_root.
func VerifyCreate(ctx types.ChallengeContext) error {
	if ctx.Block == nil {
		return types.Err(types.CodeInvalidChallengeContext, "challenge cell carries no accused block")
	}
	if verifier.ComputeTxRoot(ctx.Txs) != ctx.Block.TxRoot {
		return types.Err(types.CodeInvalidChallengeContext, "challenge txs do not hash to the accused block's tx_root")
	}
	return nil
}

// VerifyWithdraw checks §4.8b's WithdrawChallenge variant: the
// challenger may only reclaim the bond once the relative epoch lock has
// matured, spending into an output matching the cell's pinned
// withdraw-lock hash.
func VerifyWithdraw(cell CellRef, respond types.WithdrawChallengeRespond) error {
	epochs, ok := cell.Since.EpochValue()
	if !ok || epochs < verifier.WithdrawWaitEpochs {
		return types.Err(types.CodeInvalidSince, "withdraw requires a matured relative epoch lock")
	}
	if respond.WithdrawLockHash != cell.Args.WithdrawLockHash {
		return types.Err(types.CodeNoUnlockCell, "withdraw output does not match the challenge's pinned lock hash")
	}
	return nil
}

// VerifyInvalidChallenge checks §4.8b's InvalidChallenge variant: the
// defender refutes the challenge by re-executing every cited tx, via
// the real C5 executor, against a store seeded from the witness-supplied
// touched accounts, then checking the result reproduces the block's
// claimed post-state.
//
// A tx that errors during re-execution fails the refutation: per
// §4.8b step 2, the aggregator should never have included an
// invalid tx in the first place, so hitting one here means the original
// block was built wrong and the challenge stands, reported the same way
// as a root mismatch: a *types.VerifyError carrying
// CodeTryRevertValidBlock. nil means the challenge was successfully
// refuted.
func VerifyInvalidChallenge(ctx types.ChallengeContext, respond types.InvalidChallengeRespond) error {
	if ctx.Block == nil {
		return types.Err(types.CodeInvalidChallengeContext, "challenge cell carries no accused block")
	}
	B := ctx.Block

	store := seedStore(respond.TouchedAccounts)
	prevRoot, err := store.RootWithProof(respond.TouchedAccountsProof)
	if err != nil {
		return types.Err(types.CodeInvalidAccountMerkleProof, "%v", err)
	}
	if prevRoot != B.PrevAccountRoot {
		return types.Err(types.CodeInvalidAccountMerkleProof, "touched_accounts_proof does not resolve to block.prev_account_root")
	}

	for _, tx := range ctx.Txs {
		if err := executor.Execute(store, tx, B.AgIndex); err != nil {
			return types.Err(types.CodeTryRevertValidBlock, "re-execution hit a tx the aggregator should have excluded; challenge stands")
		}
	}

	newRoot, err := store.RootWithProof(respond.TouchedAccountsProof)
	if err != nil {
		return types.Err(types.CodeInvalidAccountMerkleProof, "%v", err)
	}
	if newRoot != B.AccountRoot {
		return types.Err(types.CodeTryRevertValidBlock, "re-execution root does not match the block's claimed account_root; challenge stands")
	}
	return nil
}

// seedStore builds an accountstore.Store holding exactly the touched
// accounts' records and token balances — nothing else — so executor.Execute
// can run the real C5 rule against it unmodified.
func seedStore(touched []types.TouchedAccount) *accountstore.Store {
	store := accountstore.NewStore()
	for _, t := range touched {
		if t.Account == nil {
			continue
		}
		store.UpdateAccount(t.Account)
		for token, bal := range t.TokenKV {
			store.UpdateBalance(t.Account.Index, token, bal)
		}
	}
	return store
}
