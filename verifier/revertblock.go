// SPDX-License-Identifier: MIT
// Dev: KryperAI

package verifier

import (
	"github.com/holiman/uint256"

	"kryprollup/accountstore"
	"kryprollup/hashmmr"
	"kryprollup/smt"
	"kryprollup/types"
)

// verifyRevertBlock checks a RevertBlockAction (§4.6.4), the terminal
// fraud-proof action: a successful challenge replaces the accused block
// with its reverted form, slashes the aggregator's native balance, and
// rewards the challenger, all in a single state transition. Locating
// and authenticating the challenge cell among the spending
// transaction's raw inputs is the caller's job (an adapter outside this
// package, grounded on original_source/contracts/main/src/action/
// revert_block.rs's own cell-scanning step); challenge carries the
// already-extracted fields this check needs.
func verifyRevertBlock(ctx *Context, old, new types.GlobalState, challenge ChallengeCellRef, a *types.RevertBlockAction) error {
	if a == nil || a.AgAccount == nil || a.ChallengerAccount == nil {
		return types.Err(types.CodeInvalidWitness, "missing revert-block payload")
	}
	if challenge.DataHash != a.ChallengeCellDataHash {
		return types.Err(types.CodeInvalidChallengeContext, "challenge cell data-hash mismatch")
	}
	if challenge.TypeHash != ctx.ChallengeContractCodeHash {
		return types.Err(types.CodeInvalidChallengeCell, "challenge cell is not a deployed challenge contract instance")
	}
	if challenge.Args.MainTypeHash != ctx.SelfTypeHash {
		return types.Err(types.CodeInvalidChallengeCell, "challenge cell does not target this rollup")
	}

	blocks, ok := challenge.Since.BlockNumberValue()
	if !ok || blocks < ChallengeCellWaitBlocks {
		return types.Err(types.CodeInvalidSince, "challenge cell wait period not satisfied")
	}

	B := challenge.Context.Block
	if B == nil {
		return types.Err(types.CodeInvalidChallengeContext, "challenge cell carries no accused block")
	}
	if B.IsReverted() {
		return types.Err(types.CodeTryRevertRevertedBlock, "block %d was already reverted", B.Number)
	}

	if err := verifyBlockInclusion(old.BlockRoot, B, a.BlockProof); err != nil {
		return err
	}

	ag, challenger := a.AgAccount, a.ChallengerAccount
	if ag.Index != B.AgIndex {
		return types.Err(types.CodeInvalidAggregatorIndex, "revert-block aggregator does not match the accused block")
	}
	if challenger.Index != challenge.Context.ChallengerIndex {
		return types.Err(types.CodeInvalidChallengerIndex, "revert-block challenger does not match the challenge context")
	}

	claimed := accountTokenLeaves(ag, a.AgTokenKV)
	for k, v := range accountTokenLeaves(challenger, a.ChallengerTokenKV) {
		claimed[k] = v
	}

	oldAR, err := smt.ComputeRootWithProof(claimed, a.AccountsProof)
	if err != nil {
		return types.Err(types.CodeInvalidAccountMerkleProof, "%v", err)
	}
	if oldAR != B.PrevAccountRoot {
		return types.Err(types.CodeInvalidAccountMerkleProof, "accounts_proof does not resolve to block.prev_account_root")
	}

	agNative := a.AgTokenKV[NativeTokenID]
	challengerNative := a.ChallengerTokenKV[NativeTokenID]

	// agNative*8 can overflow a uint64 long before agNative itself does
	// (anything past ~2.3 quintillion), so the multiply happens in
	// 256-bit arithmetic and only the final (always-in-range, since it's
	// at most agNative) quotient is brought back down to uint64.
	wideReward := uint256.NewInt(0).Mul(uint256.NewInt(agNative), uint256.NewInt(ChallengeRewardNumerator))
	wideReward.Div(wideReward, uint256.NewInt(ChallengeRewardDenominator))
	reward := wideReward.Uint64()

	newChallengerNative := challengerNative + reward
	if newChallengerNative < challengerNative {
		newChallengerNative = ^uint64(0)
	}

	updated := make(map[types.Hash]types.Hash, len(claimed))
	for k, v := range claimed {
		updated[k] = v
	}
	updated[accountstore.TokenKey(ag.Index, NativeTokenID)] = accountstore.BalanceLeafDigest(0)
	updated[accountstore.TokenKey(challenger.Index, NativeTokenID)] = accountstore.BalanceLeafDigest(newChallengerNative)

	arPrime, err := smt.ComputeRootWithProof(updated, a.AccountsProof)
	if err != nil {
		return types.Err(types.CodeInvalidAccountMerkleProof, "%v", err)
	}
	if new.AccountRoot != arPrime {
		return types.Err(types.CodeInvalidGlobalState, "new.account_root does not reflect the slash/reward")
	}

	reverted := types.Reverted(B, arPrime, challenger.Index)
	if err := verifyBlockReplacement(new.BlockRoot, B.Number, a.BlockProof, reverted); err != nil {
		return err
	}

	if new.AccountCount != old.AccountCount {
		return types.Err(types.CodeInvalidAccountCount, "revert-block must not change account_count")
	}
	if new.BlockCount != old.BlockCount {
		return types.Err(types.CodeInvalidBlockMerkleProof, "revert-block must not change block_count")
	}
	return nil
}

// accountTokenLeaves builds the claimed (index_key -> account,
// token_key -> balance) leaf set for one account out of its full
// token_kv, always including the native token leaf even when its
// balance is zero (a deposit/register-less account still has an empty
// native leaf the accounts_proof must open correctly).
func accountTokenLeaves(acc *types.Account, tokenKV map[types.TokenID]uint64) map[types.Hash]types.Hash {
	out := map[types.Hash]types.Hash{
		accountstore.IndexKey(acc.Index): accountstore.AccountLeafDigest(acc),
	}
	for token, bal := range tokenKV {
		out[accountstore.TokenKey(acc.Index, token)] = accountstore.BalanceLeafDigest(bal)
	}
	if _, ok := tokenKV[NativeTokenID]; !ok {
		out[accountstore.TokenKey(acc.Index, NativeTokenID)] = accountstore.BalanceLeafDigest(0)
	}
	return out
}

// verifyBlockInclusion checks that B sits at its own leaf position in
// the MMR old.block_root commits to.
func verifyBlockInclusion(oldBlockRoot types.Hash, B *types.Block, proof types.MMRProof) error {
	pos := hashmmr.LeafIndexToPos(B.Number)
	root, err := hashmmr.VerifyRoot(map[uint64]types.Hash{pos: B.Hash()}, proof)
	if err != nil {
		return types.Err(types.CodeInvalidBlockMerkleProof, "%v", err)
	}
	if root != oldBlockRoot {
		return types.Err(types.CodeInvalidBlockMerkleProof, "accused block not found at its claimed position under old.block_root")
	}
	return nil
}

// verifyBlockReplacement checks that swapping in reverted at the same
// leaf position (reusing the identical proof, the MMR analogue of the
// SMT's "update under proof" property: the proof's revealed siblings
// don't depend on the value at the one position being replaced)
// reproduces new.block_root.
func verifyBlockReplacement(newBlockRoot types.Hash, number uint64, proof types.MMRProof, reverted *types.Block) error {
	pos := hashmmr.LeafIndexToPos(number)
	root, err := hashmmr.VerifyRoot(map[uint64]types.Hash{pos: reverted.Hash()}, proof)
	if err != nil {
		return types.Err(types.CodeInvalidBlockMerkleProof, "%v", err)
	}
	if root != newBlockRoot {
		return types.Err(types.CodeInvalidBlockMerkleProof, "new.block_root does not reflect the reverted block")
	}
	return nil
}
