// SPDX-License-Identifier: MIT
// Dev: KryperAI

// Package executor is the pure transfer-execution rule (C5), grounded
// on the teacher's snapshot/revert Executor.ExecuteTx pattern
// (types/executor.go) and generalized to the rollup's account/token
// model instead of a single native balance.
package executor

import (
	"kryprollup/accountstore"
	"kryprollup/secp256k1"
	"kryprollup/types"
)

// Execute applies tx against state under the aggregator account agIndex,
// following the seven-step rule exactly. On any failure state is left
// unmodified (all-or-nothing) and the typed error is returned.
func Execute(state *accountstore.Store, tx *types.Tx, agIndex uint64) error {
	// 1. Load sender.
	sender := state.GetAccount(tx.SenderIndex)
	if sender == nil {
		return types.Err(types.CodeMissingAccount, "sender %d not found", tx.SenderIndex)
	}

	// 2. Nonce ordering.
	if tx.Nonce != sender.Nonce+1 {
		return types.Err(types.CodeInvalidNonce, "expected %d, got %d", sender.Nonce+1, tx.Nonce)
	}

	// 3. Signature.
	if err := secp256k1.Verify(tx.Witness, tx.SigningMessage(), sender.PubkeyHash); err != nil {
		return err
	}

	// 4. Sender must be externally-owned.
	if sender.IsContract() {
		return types.Err(types.CodeContractCall, "sender %d is a contract account", tx.SenderIndex)
	}

	snap := state.Snapshot()

	// 5. Fee transfer: sender -> aggregator.
	if err := transfer(state, tx.SenderIndex, agIndex, tx.Fee.Token, tx.Fee.Amount); err != nil {
		state.RevertToSnapshot(snap)
		return err
	}

	// 6. Value transfer: sender -> recipient.
	if state.GetAccount(tx.ToIndex) == nil {
		state.RevertToSnapshot(snap)
		return types.Err(types.CodeMissingAccount, "recipient %d not found", tx.ToIndex)
	}
	if err := transfer(state, tx.SenderIndex, tx.ToIndex, tx.Amount.Token, tx.Amount.Amount); err != nil {
		state.RevertToSnapshot(snap)
		return err
	}

	// 7. Nonce increment.
	if sender.Nonce == ^uint32(0) {
		state.RevertToSnapshot(snap)
		return types.Err(types.CodeInvalidNonce, "nonce overflow for account %d", tx.SenderIndex)
	}
	updated := sender.Copy()
	updated.Nonce++
	state.UpdateAccount(updated)

	return nil
}

// transfer debits `amount` of `token` from `from` and credits `to`,
// checking both BalanceNotEnough and BalanceOverflow.
func transfer(state *accountstore.Store, from, to uint64, token types.TokenID, amount uint64) error {
	if amount == 0 {
		return nil
	}
	fromBal := state.GetBalance(from, token)
	if fromBal < amount {
		return types.Err(types.CodeBalanceNotEnough, "account %d has %d, needs %d", from, fromBal, amount)
	}
	if from == to {
		return nil
	}
	toBal := state.GetBalance(to, token)
	if toBal+amount < toBal {
		return types.Err(types.CodeBalanceOverflow, "account %d balance would overflow", to)
	}
	state.UpdateBalance(from, token, fromBal-amount)
	state.UpdateBalance(to, token, toBal+amount)
	return nil
}
