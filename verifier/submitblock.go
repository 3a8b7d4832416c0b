// SPDX-License-Identifier: MIT
// Dev: KryperAI

package verifier

import (
	"kryprollup/accountstore"
	"kryprollup/hashmmr"
	"kryprollup/secp256k1"
	"kryprollup/smt"
	"kryprollup/types"
)

// verifySubmitBlock checks a SubmitBlockAction (§4.6.3). It does not
// re-execute the block's txs (that happens off-chain, in the
// aggregator's own executor pass before it ever signs a block) — it
// only checks the block header is internally consistent, correctly
// signed by a sufficiently-funded aggregator, and correctly appended to
// the block chain MMR.
//
// The witness carries block_proof as an MMR append-proof (the same
// shape chainstore.Store.ProofForAppend produces): the peaks of the
// OLD tree, revealed in full. That single proof both reproduces
// old.block_root (bag the peaks) and, combined with the append-carry
// identity in hashmmr.AppendPeaks, derives new.block_root — so there is
// no separate "last_block_hash" witness field to smuggle in and trust.
func verifySubmitBlock(old, new types.GlobalState, cell CellContext, a *types.SubmitBlockAction) error {
	if a == nil || a.Block == nil || a.AgAccount == nil {
		return types.Err(types.CodeInvalidWitness, "missing submit-block payload")
	}
	if cell.InputCapacity != cell.OutputCapacity {
		return types.Err(types.CodeIncorrectCapacity, "submit-block must not move capacity")
	}

	B := a.Block
	ag := a.AgAccount
	if ag.IsContract() {
		return types.Err(types.CodeInvalidAggregator, "aggregator account must be externally-owned")
	}
	agBal := a.AgTokenKV[NativeTokenID]
	if agBal < AggregatorRequiredBalance {
		return types.Err(types.CodeInvalidAggregator, "aggregator native balance %d below minimum %d", agBal, AggregatorRequiredBalance)
	}
	if B.AgIndex != ag.Index {
		return types.Err(types.CodeInvalidAggregatorIndex, "block ag_index does not match the proven aggregator account")
	}

	oldLeaves := map[types.Hash]types.Hash{
		accountstore.IndexKey(ag.Index):               accountstore.AccountLeafDigest(ag),
		accountstore.TokenKey(ag.Index, NativeTokenID): accountstore.BalanceLeafDigest(agBal),
	}
	oldAccRoot, err := smt.ComputeRootWithProof(oldLeaves, a.AccountProof)
	if err != nil {
		return types.Err(types.CodeInvalidAccountMerkleProof, "%v", err)
	}
	if oldAccRoot != old.AccountRoot {
		return types.Err(types.CodeInvalidAccountMerkleProof, "aggregator account not found under old.account_root")
	}

	if err := secp256k1.Verify(B.AgSig, B.SigningMessage(), ag.PubkeyHash); err != nil {
		return err
	}

	if B.PrevAccountRoot != old.AccountRoot {
		return types.Err(types.CodeInvalidGlobalState, "block.prev_account_root does not match old.account_root")
	}
	if B.AccountRoot != new.AccountRoot {
		return types.Err(types.CodeInvalidGlobalState, "block.account_root does not match new.account_root")
	}
	if B.PrevAccountCount != old.AccountCount {
		return types.Err(types.CodeInvalidAccountCount, "block.prev_account_count does not match old.account_count")
	}
	if B.AccountCount != new.AccountCount {
		return types.Err(types.CodeInvalidAccountCount, "block.account_count does not match new.account_count")
	}
	if int(B.TxsCount) != len(a.Txs) {
		return types.Err(types.CodeInvalidTxMerkleProof, "block.txs_count does not match the supplied tx witness")
	}
	if ComputeTxRoot(a.Txs) != B.TxRoot {
		return types.Err(types.CodeInvalidTxMerkleProof, "block.tx_root does not match the supplied txs")
	}

	return verifyBlockAppend(old, new, B, a.BlockProof)
}

// ComputeTxRoot bags the given txs' hashes into the same MMR
// construction the block chain itself uses, per §4.6.3's "same MMR
// construction" requirement for tx_root. Exported so the challenge
// package's Create check can anchor a challenge cell's txs to the same
// root without duplicating the MMR call.
func ComputeTxRoot(txs []*types.Tx) types.Hash {
	if len(txs) == 0 {
		return types.ZeroHash()
	}
	m := hashmmr.NewMMR()
	for _, tx := range txs {
		m.Push(tx.Hash())
	}
	root, _ := m.Root()
	return root
}

// verifyBlockAppend checks that new.block_root is exactly what you get
// by appending B.Hash() onto the MMR old.block_root commits to, via the
// peak list block_proof reveals.
func verifyBlockAppend(old, new types.GlobalState, B *types.Block, proof types.MMRProof) error {
	recomputedOld, err := hashmmr.VerifyRoot(map[uint64]types.Hash{}, proof)
	if err != nil {
		return types.Err(types.CodeInvalidBlockMerkleProof, "%v", err)
	}
	if recomputedOld != old.BlockRoot {
		return types.Err(types.CodeInvalidBlockMerkleProof, "block_proof does not open old.block_root")
	}

	if old.BlockCount == 0 {
		if !old.BlockRoot.IsZero() || len(proof.Items) != 0 {
			return types.Err(types.CodeInvalidBlockMerkleProof, "first block requires an empty old block chain and an empty proof")
		}
	}

	newPeaks := hashmmr.AppendPeaks(old.BlockCount, proof.Items, B.Hash())
	if hashmmr.PeaksRoot(newPeaks) != new.BlockRoot {
		return types.Err(types.CodeInvalidBlockMerkleProof, "new.block_root does not match the block chain append")
	}
	if new.BlockCount != old.BlockCount+1 {
		return types.Err(types.CodeInvalidBlockMerkleProof, "block_count must increment by one")
	}
	return nil
}
