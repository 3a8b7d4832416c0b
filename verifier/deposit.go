// SPDX-License-Identifier: MIT
// Dev: KryperAI

package verifier

import (
	"kryprollup/accountstore"
	"kryprollup/smt"
	"kryprollup/types"
)

// verifyDeposit checks a DepositAction (§4.6.2): the deposited capacity
// credits an existing account's native balance. The witness carries the
// account's full current token_kv (every non-empty token leaf), since
// the proof is a single multi-leaf witness covering the account record
// and all of its balances at once, reused unmodified for both the old
// and new root checks (the "update under proof" property).
func verifyDeposit(old, new types.GlobalState, cell CellContext, a *types.DepositAction) error {
	if a == nil || a.Account == nil {
		return types.Err(types.CodeInvalidWitness, "missing deposit payload")
	}
	acc := a.Account
	if cell.OutputCapacity < cell.InputCapacity {
		return types.Err(types.CodeIncorrectCapacity, "deposit cannot withdraw capacity")
	}
	d := cell.OutputCapacity - cell.InputCapacity
	if d == 0 {
		return types.Err(types.CodeInvalidDepositAmount, "deposit must be positive")
	}

	oldLeaves := map[types.Hash]types.Hash{
		accountstore.IndexKey(acc.Index): accountstore.AccountLeafDigest(acc),
	}
	for token, bal := range a.TokenKV {
		oldLeaves[accountstore.TokenKey(acc.Index, token)] = accountstore.BalanceLeafDigest(bal)
	}
	if _, ok := a.TokenKV[NativeTokenID]; !ok {
		oldLeaves[accountstore.TokenKey(acc.Index, NativeTokenID)] = accountstore.BalanceLeafDigest(0)
	}

	oldRoot, err := smt.ComputeRootWithProof(oldLeaves, a.Proof)
	if err != nil {
		return types.Err(types.CodeInvalidAccountMerkleProof, "%v", err)
	}
	if oldRoot != old.AccountRoot {
		return types.Err(types.CodeInvalidAccountMerkleProof, "account %d token_kv does not match old.account_root", acc.Index)
	}

	newNativeBalance := a.TokenKV[NativeTokenID] + d
	if newNativeBalance < a.TokenKV[NativeTokenID] {
		return types.Err(types.CodeBalanceOverflow, "deposit overflows account %d native balance", acc.Index)
	}
	newLeaves := make(map[types.Hash]types.Hash, len(oldLeaves))
	for k, v := range oldLeaves {
		newLeaves[k] = v
	}
	newLeaves[accountstore.TokenKey(acc.Index, NativeTokenID)] = accountstore.BalanceLeafDigest(newNativeBalance)

	newRoot, err := smt.ComputeRootWithProof(newLeaves, a.Proof)
	if err != nil {
		return types.Err(types.CodeInvalidAccountMerkleProof, "%v", err)
	}
	if newRoot != new.AccountRoot {
		return types.Err(types.CodeInvalidAccountMerkleProof, "new.account_root does not reflect the credited deposit")
	}

	if new.AccountCount != old.AccountCount {
		return types.Err(types.CodeInvalidAccountCount, "deposit must not change account_count")
	}
	if new.BlockRoot != old.BlockRoot || new.BlockCount != old.BlockCount {
		return types.Err(types.CodeInvalidGlobalState, "deposit must not touch block chain state")
	}
	return nil
}
