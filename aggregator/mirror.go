// SPDX-License-Identifier: MIT
// Dev: KryperAI

// Package aggregator is the off-chain block producer (C7): a
// single-owner mutable mirror of the rollup's account SMT and block
// MMR, with a FIFO tx queue, grounded on the teacher's aggregator-node
// mirror/minerLoop pattern and generalized to the rollup's four-action
// state machine instead of single-chain block production.
package aggregator

import (
	"fmt"

	"kryprollup/accountstore"
	"kryprollup/chainstore"
	"kryprollup/executor"
	"kryprollup/types"
	"kryprollup/verifier"
)

// Mirror is the aggregator's private view of rollup state: it is never
// read directly by the verifier, only through the witnesses
// GenSubmitBlock/CompleteSubmitBlock produce.
type Mirror struct {
	accounts *accountstore.Store
	chain    *chainstore.Store
	queue    []*types.Tx
	agIndex  uint64
}

func NewMirror(agIndex uint64) *Mirror {
	return &Mirror{
		accounts: accountstore.NewStore(),
		chain:    chainstore.NewStore(),
		agIndex:  agIndex,
	}
}

func (m *Mirror) Accounts() *accountstore.Store { return m.accounts }
func (m *Mirror) Chain() *chainstore.Store       { return m.chain }
func (m *Mirror) AgIndex() uint64                { return m.agIndex }

// PushTx enqueues a tx for the next block (§4.7 push_tx).
func (m *Mirror) PushTx(tx *types.Tx) {
	m.queue = append(m.queue, tx)
}

// QueueLen reports how many txs are waiting to be batched.
func (m *Mirror) QueueLen() int { return len(m.queue) }

// SubmitBlockContext is the in-flight block gen_submit_block hands back:
// a built, as-yet-unsigned Block plus everything complete_submit_block
// needs to finish it off, and the pre-block snapshot Abort rolls back to.
type SubmitBlockContext struct {
	Block        *types.Block
	Txs          []*types.Tx
	Dropped      []*types.Tx
	AgAccount    *types.Account
	AgTokenKV    map[types.TokenID]uint64
	AccountProof types.SMTProof
	BlockProof   types.MMRProof

	snapshot *accountstore.Snapshot
}

// GenSubmitBlock runs §4.7's four steps: snapshot the aggregator's
// proven pre-state, apply every queued tx (dropping — never failing —
// on executor error, since the aggregator is trusted to have screened
// its own queue), compute the new commitments, and build B with
// ag_sig left zero for the caller to sign.
//
// State is mutated in place as txs apply (matching §5's instruction to
// either clone-and-swap or keep a reverse log): the pre-block snapshot
// is kept on the returned context so Abort can restore it if the
// caller ultimately discards this block instead of completing it.
func (m *Mirror) GenSubmitBlock() (*SubmitBlockContext, error) {
	agAccount := m.accounts.GetAccount(m.agIndex)
	if agAccount == nil {
		return nil, fmt.Errorf("aggregator: account %d is not registered", m.agIndex)
	}
	agNative := m.accounts.GetBalance(m.agIndex, types.NativeTokenID)

	accountProof, err := m.accounts.MerkleProof([]types.Hash{
		accountstore.IndexKey(m.agIndex),
		accountstore.TokenKey(m.agIndex, types.NativeTokenID),
	})
	if err != nil {
		return nil, fmt.Errorf("aggregator: proving own account: %w", err)
	}

	prevAccountRoot := m.accounts.Root()
	prevAccountCount := m.accounts.Count()
	snap := m.accounts.Snapshot()

	pending := m.queue
	m.queue = nil

	var applied, dropped []*types.Tx
	for _, tx := range pending {
		if err := executor.Execute(m.accounts, tx, m.agIndex); err != nil {
			dropped = append(dropped, tx)
			continue
		}
		applied = append(applied, tx)
	}

	blockProof, err := m.chain.ProofForAppend()
	if err != nil {
		return nil, fmt.Errorf("aggregator: proving block chain append: %w", err)
	}

	block := &types.Block{
		Number:           m.chain.BlockCount(),
		TxRoot:           verifier.ComputeTxRoot(applied),
		TxsCount:         uint32(len(applied)),
		AgIndex:          m.agIndex,
		PrevAccountRoot:  prevAccountRoot,
		PrevAccountCount: prevAccountCount,
		AccountRoot:      m.accounts.Root(),
		AccountCount:     m.accounts.Count(),
	}

	return &SubmitBlockContext{
		Block:        block,
		Txs:          applied,
		Dropped:      dropped,
		AgAccount:    agAccount,
		AgTokenKV:    map[types.TokenID]uint64{types.NativeTokenID: agNative},
		AccountProof: accountProof,
		BlockProof:   blockProof,
		snapshot:     snap,
	}, nil
}

// CompleteSig installs the aggregator's signature over the block's
// signing message (§4.7 complete_sig).
func (ctx *SubmitBlockContext) CompleteSig(sig types.Signature65) {
	ctx.Block.AgSig = sig
}

// CompleteSubmitBlock appends the now-signed block to the block MMR and
// builds the on-chain SubmitBlock action envelope (§4.7
// complete_submit_block).
func (m *Mirror) CompleteSubmitBlock(ctx *SubmitBlockContext) *types.Action {
	m.chain.Submit(ctx.Block)
	m.chain.SetTxs(ctx.Block.Number, ctx.Txs)
	return &types.Action{
		Kind: types.ActionSubmitBlock,
		SubmitBlock: &types.SubmitBlockAction{
			Block:        ctx.Block,
			Txs:          ctx.Txs,
			AgAccount:    ctx.AgAccount,
			AgTokenKV:    ctx.AgTokenKV,
			AccountProof: ctx.AccountProof,
			BlockProof:   ctx.BlockProof,
		},
	}
}

// Abort discards an in-flight block, restoring account state to exactly
// what it was before GenSubmitBlock ran and requeuing the txs it had
// applied so they get another chance in the next block.
func (m *Mirror) Abort(ctx *SubmitBlockContext) {
	m.accounts.RevertToSnapshot(ctx.snapshot)
	m.queue = append(append([]*types.Tx(nil), ctx.Txs...), m.queue...)
}
