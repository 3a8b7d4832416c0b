// SPDX-License-Identifier: MIT
// Dev: KryperAI

// Package node wires an aggregator mirror and the action verifier into
// a running process: a ticking block-production loop and a
// challenge-maturity watcher, grounded on the teacher's
// Node.minerLoop/produceBlock snapshot-execute-commit-or-revert pattern
// (node/node.go) and generalized from single-chain block mining to the
// rollup's four-action state machine.
package node

import (
	"fmt"
	"log"
	"sync"
	"time"

	"crypto/ecdsa"

	"kryprollup/aggregator"
	"kryprollup/executor"
	"kryprollup/secp256k1"
	"kryprollup/types"
	"kryprollup/verifier"
)

// Submitter delivers a finished Action to the base chain (an out-of-scope
// adapter — building and broadcasting the surrounding base-chain
// transaction is not this package's concern, the same boundary
// verifier.ChallengeCellRef already draws). It returns a non-nil error
// when the action could not be landed.
type Submitter interface {
	Submit(action *types.Action, cell verifier.CellContext) error
}

// Broadcaster gossips a just-landed Action to sibling watcher nodes
// (p2p.Manager.BroadcastAction), separate from Submitter's job of
// landing it on the base chain in the first place.
type Broadcaster interface {
	BroadcastAction(action *types.Action, cellDeposit uint64)
}

// Node runs one aggregator's block-production loop against a live
// GlobalState, self-checking every action against verifier.Verify
// before handing it to a Submitter — the same check the base chain will
// run, caught locally before spending a round trip.
type Node struct {
	mu sync.RWMutex

	Mirror *aggregator.Mirror
	Ctx    *verifier.Context
	State  types.GlobalState

	agPriv    *ecdsa.PrivateKey
	submit    Submitter
	broadcast Broadcaster

	Running   bool
	BlockTime time.Duration

	watcher *challengeWatcher
}

func NewNode(mirror *aggregator.Mirror, ctx *verifier.Context, agPriv *ecdsa.PrivateKey, initial types.GlobalState, submit Submitter) *Node {
	return &Node{
		Mirror:    mirror,
		Ctx:       ctx,
		State:     initial,
		agPriv:    agPriv,
		submit:    submit,
		BlockTime: 3 * time.Second,
		watcher:   newChallengeWatcher(),
	}
}

// SetBroadcaster wires a p2p gossip layer in after construction, since
// a Manager is typically built from the same peer list config.Load
// parses, not known at NewNode time.
func (n *Node) SetBroadcaster(b Broadcaster) {
	n.broadcast = b
}

func (n *Node) Start() {
	n.mu.Lock()
	n.Running = true
	n.mu.Unlock()

	log.Println("NODE: STARTED")
	go n.aggregatorLoop()
	go n.challengeLoop()
}

func (n *Node) Stop() {
	n.mu.Lock()
	n.Running = false
	n.mu.Unlock()
	log.Println("NODE: STOPPED")
}

func (n *Node) isRunning() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.Running
}

func (n *Node) aggregatorLoop() {
	ticker := time.NewTicker(n.BlockTime)
	defer ticker.Stop()

	for n.isRunning() {
		<-ticker.C
		if n.Mirror.QueueLen() == 0 {
			continue
		}
		n.produceBlock()
	}
}

// produceBlock runs §4.7's gen_submit_block/complete_sig/complete_submit_block
// sequence, self-checks the result against verifier.Verify, and hands
// it to the Submitter — rolling the mirror back on any failure so a
// rejected block never leaves stray applied txs behind.
func (n *Node) produceBlock() {
	ctx, err := n.Mirror.GenSubmitBlock()
	if err != nil {
		log.Printf("aggregator: gen_submit_block: %v", err)
		return
	}

	sig, err := secp256k1.Sign(n.agPriv, ctx.Block.SigningMessage())
	if err != nil {
		log.Printf("aggregator: signing block: %v", err)
		n.Mirror.Abort(ctx)
		return
	}
	ctx.CompleteSig(sig)

	action := n.Mirror.CompleteSubmitBlock(ctx)

	newBlockRoot, err := n.Mirror.Chain().Root()
	if err != nil {
		log.Printf("aggregator: block chain root: %v", err)
		n.Mirror.Abort(ctx)
		return
	}
	old := n.State
	next := types.GlobalState{
		AccountRoot:  ctx.Block.AccountRoot,
		BlockRoot:    newBlockRoot,
		AccountCount: ctx.Block.AccountCount,
		BlockCount:   old.BlockCount + 1,
	}

	cell := verifier.CellContext{
		OutputTypeHash: n.Ctx.SelfTypeHash,
		OutputLockHash: n.Ctx.SelfLockHash,
	}
	if err := verifier.Verify(n.Ctx, old, next, cell, verifier.ChallengeCellRef{}, action); err != nil {
		log.Printf("aggregator: self-check rejected block %d: %v", ctx.Block.Number, err)
		n.Mirror.Abort(ctx)
		return
	}

	if n.submit != nil {
		if err := n.submit.Submit(action, cell); err != nil {
			log.Printf("aggregator: submitting block %d: %v", ctx.Block.Number, err)
			n.Mirror.Abort(ctx)
			return
		}
	}

	n.State = next
	log.Printf("BLOCK SUBMITTED — NUMBER %d — %d txs", ctx.Block.Number, len(ctx.Txs))

	if n.broadcast != nil {
		n.broadcast.BroadcastAction(action, 0)
	}
}

// ApplyRemoteAction folds an Action this node did not itself produce —
// received over p2p from the aggregator that did — into the local
// mirror and GlobalState, so a watcher node's view stays current
// without ever driving block production itself.
//
// Register and Deposit mint/credit a capacity delta that lives in the
// base-chain cell, not in the Action payload itself (verifyRegister and
// verifyDeposit both read it off CellContext) — a watcher only learns
// it by observing the same base-chain transaction, so the caller (the
// p2p handler, reading whatever envelope carried that transaction)
// supplies it here rather than this method inventing a way to recover
// it from the action alone. SubmitBlock needs no such side channel: it
// re-executes the block's own txs through the same executor the
// aggregator used, so a watcher's account tree tracks the aggregator's
// byte-for-byte rather than trusting the claimed roots outright.
func (n *Node) ApplyRemoteAction(action *types.Action, cellDeposit uint64) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch action.Kind {
	case types.ActionRegister:
		a := action.Register
		aggregator.ApplyRegister(n.Mirror.Accounts(), a.Account, cellDeposit)
		n.State.AccountRoot = n.Mirror.Accounts().Root()
		n.State.AccountCount = n.Mirror.Accounts().Count()
	case types.ActionDeposit:
		a := action.Deposit
		aggregator.ApplyDeposit(n.Mirror.Accounts(), a.Account.Index, cellDeposit)
		n.State.AccountRoot = n.Mirror.Accounts().Root()
		n.State.AccountCount = n.Mirror.Accounts().Count()
	case types.ActionSubmitBlock:
		a := action.SubmitBlock
		for _, tx := range a.Txs {
			if err := executor.Execute(n.Mirror.Accounts(), tx, a.Block.AgIndex); err != nil {
				return fmt.Errorf("node: replaying remote block %d: %w", a.Block.Number, err)
			}
		}
		n.Mirror.Chain().Submit(a.Block)
		n.Mirror.Chain().SetTxs(a.Block.Number, a.Txs)
		root, err := n.Mirror.Chain().Root()
		if err != nil {
			return fmt.Errorf("node: remote block chain root: %w", err)
		}
		n.State.AccountRoot = n.Mirror.Accounts().Root()
		n.State.AccountCount = n.Mirror.Accounts().Count()
		n.State.BlockRoot = root
		n.State.BlockCount++
	case types.ActionRevertBlock:
		// A watcher has no reason to replay a revert locally: its own
		// mirror never diverges from a block the aggregator itself
		// produced, so there is nothing for it to roll back.
	}
	return nil
}

func (n *Node) challengeLoop() {
	ticker := time.NewTicker(n.BlockTime)
	defer ticker.Stop()

	for n.isRunning() {
		<-ticker.C
		n.watcher.tick(n)
	}
}

// WatchChallenge registers an open challenge cell for maturity polling:
// once its creation height is at least ChallengeCellWaitBlocks behind
// the node's own block_count, the ready action (already built by
// whoever holds the touched-account witness this challenge needs — see
// challenge.TouchedAccounts) is handed to Submitter.
func (n *Node) WatchChallenge(createdAtBlockCount uint64, ready *types.Action, cell verifier.CellContext) {
	n.watcher.add(pendingChallenge{
		createdAt: createdAtBlockCount,
		action:    ready,
		cell:      cell,
	})
}

type pendingChallenge struct {
	createdAt uint64
	action    *types.Action
	cell      verifier.CellContext
}

type challengeWatcher struct {
	mu      sync.Mutex
	pending []pendingChallenge
}

func newChallengeWatcher() *challengeWatcher {
	return &challengeWatcher{}
}

func (w *challengeWatcher) add(p pendingChallenge) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = append(w.pending, p)
}

func (w *challengeWatcher) tick(n *Node) {
	w.mu.Lock()
	due := w.pending[:0]
	var ready []pendingChallenge
	n.mu.RLock()
	current := n.State.BlockCount
	n.mu.RUnlock()
	for _, p := range w.pending {
		if current >= p.createdAt+verifier.ChallengeCellWaitBlocks {
			ready = append(ready, p)
		} else {
			due = append(due, p)
		}
	}
	w.pending = due
	w.mu.Unlock()

	for _, p := range ready {
		if n.submit == nil {
			continue
		}
		if err := n.submit.Submit(p.action, p.cell); err != nil {
			log.Println(fmt.Errorf("node: submitting matured revert-block: %w", err))
		}
	}
}
