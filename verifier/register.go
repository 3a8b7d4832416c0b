// SPDX-License-Identifier: MIT
// Dev: KryperAI

package verifier

import (
	"kryprollup/accountstore"
	"kryprollup/smt"
	"kryprollup/types"
)

// verifyRegister checks a RegisterAction (§4.6.1): the deposited
// capacity mints a brand new externally-owned account at the next free
// index, proven in under old.account_root as absent and under
// new.account_root as present with its opening native balance. The
// genesis account (index 0, empty old.account_root) needs no proof.
func verifyRegister(old, new types.GlobalState, cell CellContext, a *types.RegisterAction) error {
	if a == nil || a.Account == nil {
		return types.Err(types.CodeInvalidWitness, "missing register payload")
	}
	acc := a.Account

	if acc.Nonce != 0 {
		return types.Err(types.CodeInvalidAccountNonce, "new account nonce must be 0")
	}
	if acc.IsContract() {
		return types.Err(types.CodeInvalidAccountScript, "new account must be externally-owned")
	}
	if cell.OutputCapacity < cell.InputCapacity {
		return types.Err(types.CodeIncorrectCapacity, "register cannot withdraw capacity")
	}
	d := cell.OutputCapacity - cell.InputCapacity
	if d < NewAccountRequiredBalance {
		return types.Err(types.CodeInvalidDepositAmount, "deposit %d below minimum %d", d, NewAccountRequiredBalance)
	}
	if acc.Index != old.AccountCount {
		return types.Err(types.CodeInvalidAccountIndex, "expected next free index %d, got %d", old.AccountCount, acc.Index)
	}

	indexKey := accountstore.IndexKey(acc.Index)
	tokenKey := accountstore.TokenKey(acc.Index, NativeTokenID)

	var newRoot types.Hash
	if acc.Index == 0 {
		if !old.AccountRoot.IsZero() {
			return types.Err(types.CodeInvalidGlobalState, "genesis account registration requires an empty account_root")
		}
		// The old tree is empty, so the new one holds exactly these two
		// leaves and its root needs no proof.
		genesis := smt.NewTree()
		genesis.Update(indexKey, smt.Value(acc.Serialize()))
		genesis.Update(tokenKey, smt.Uint64Value(d))
		newRoot = genesis.Root()
	} else {
		oldRoot, err := smt.ComputeRootWithProof(map[types.Hash]types.Hash{
			indexKey: types.ZeroHash(),
			tokenKey: types.ZeroHash(),
		}, a.Proof)
		if err != nil {
			return types.Err(types.CodeInvalidAccountMerkleProof, "%v", err)
		}
		if oldRoot != old.AccountRoot {
			return types.Err(types.CodeInvalidAccountMerkleProof, "account index %d is not free under old.account_root", acc.Index)
		}

		newRoot, err = smt.ComputeRootWithProof(map[types.Hash]types.Hash{
			indexKey: accountstore.AccountLeafDigest(acc),
			tokenKey: accountstore.BalanceLeafDigest(d),
		}, a.Proof)
		if err != nil {
			return types.Err(types.CodeInvalidAccountMerkleProof, "%v", err)
		}
	}
	if newRoot != new.AccountRoot {
		return types.Err(types.CodeInvalidAccountMerkleProof, "new.account_root does not reflect the registered account")
	}

	if new.AccountCount != old.AccountCount+1 {
		return types.Err(types.CodeInvalidAccountCount, "account_count must increment by one")
	}
	if new.BlockRoot != old.BlockRoot || new.BlockCount != old.BlockCount {
		return types.Err(types.CodeInvalidGlobalState, "register must not touch block chain state")
	}
	return nil
}
