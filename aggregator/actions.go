// SPDX-License-Identifier: MIT
// Dev: KryperAI

package aggregator

import (
	"kryprollup/accountstore"
	"kryprollup/types"
)

// BuildRegisterAction proves the next free account index is empty
// under store's current root, then returns the Register action witness
// a caller submits on-chain. It does not mutate store — call
// ApplyRegister once the action lands (or immediately, for a caller
// that's also the account store's sole owner) to keep the mirror in
// sync with what it just proved.
func BuildRegisterAction(store *accountstore.Store, pubkeyHash types.PubkeyHash, deposit uint64) (*types.Action, *types.Account, error) {
	index := store.Count()
	proof, err := store.MerkleProof([]types.Hash{
		accountstore.IndexKey(index),
		accountstore.TokenKey(index, types.NativeTokenID),
	})
	if err != nil {
		return nil, nil, err
	}
	account := types.NewAccount(index, pubkeyHash)
	return &types.Action{
		Kind:     types.ActionRegister,
		Register: &types.RegisterAction{Account: account, Proof: proof},
	}, account, nil
}

// ApplyRegister mirrors a landed Register action into store: inserts
// the account record and its opening native balance.
func ApplyRegister(store *accountstore.Store, account *types.Account, deposit uint64) {
	store.UpdateAccount(account)
	store.UpdateBalance(account.Index, types.NativeTokenID, deposit)
}

// BuildDepositAction proves an existing account's current token_kv
// under store's current root, for a caller topping up its native
// balance by deposit.
func BuildDepositAction(store *accountstore.Store, index uint64, tokens []types.TokenID, deposit uint64) (*types.Action, error) {
	account := store.GetAccount(index)
	if account == nil {
		return nil, types.Err(types.CodeMissingAccount, "account %d not registered", index)
	}

	keys := make([]types.Hash, 0, len(tokens)+2)
	keys = append(keys, accountstore.IndexKey(index))
	tokenKV := make(map[types.TokenID]uint64, len(tokens)+1)
	seenNative := false
	for _, tok := range tokens {
		if tok.IsNative() {
			seenNative = true
		}
		bal := store.GetBalance(index, tok)
		tokenKV[tok] = bal
		keys = append(keys, accountstore.TokenKey(index, tok))
	}
	if !seenNative {
		tokenKV[types.NativeTokenID] = store.GetBalance(index, types.NativeTokenID)
		keys = append(keys, accountstore.TokenKey(index, types.NativeTokenID))
	}

	proof, err := store.MerkleProof(keys)
	if err != nil {
		return nil, err
	}
	return &types.Action{
		Kind: types.ActionDeposit,
		Deposit: &types.DepositAction{
			Account: account,
			TokenKV: tokenKV,
			Proof:   proof,
		},
	}, nil
}

// ApplyDeposit mirrors a landed Deposit action into store: credits the
// account's native balance by deposit.
func ApplyDeposit(store *accountstore.Store, index uint64, deposit uint64) {
	current := store.GetBalance(index, types.NativeTokenID)
	store.UpdateBalance(index, types.NativeTokenID, current+deposit)
}
