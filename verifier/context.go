// SPDX-License-Identifier: MIT
// Dev: KryperAI

package verifier

import "kryprollup/types"

// Context pins the verifier to exactly one rollup deployment: the
// type-script hash the single live rollup cell must carry across the
// transition, its lock-script hash, and the type-script hash the
// companion challenge contract is deployed under. These are fixed at
// genesis and never change, the way a real on-chain script's own code
// hash is fixed at deployment.
type Context struct {
	SelfTypeHash             types.Hash
	SelfLockHash             types.Hash
	ChallengeContractCodeHash types.Hash
}

// CellContext is the slice of the surrounding base-chain transaction
// every action needs: the capacities moved in/out of the single rollup
// cell, and the output cell's own type/lock hashes (checked against
// Context to enforce the single-output-cell rule).
type CellContext struct {
	InputCapacity  uint64
	OutputCapacity uint64
	OutputTypeHash types.Hash
	OutputLockHash types.Hash
}

// CheckSingleOutputCell enforces §4.6's standing rule: every action
// transaction produces exactly one rollup output cell, carrying this
// verifier's own type and lock script.
func (c *Context) CheckSingleOutputCell(cell CellContext) error {
	if cell.OutputTypeHash != c.SelfTypeHash {
		return types.Err(types.CodeInvalidOutputTypeHash, "output cell type hash does not match this rollup")
	}
	if cell.OutputLockHash != c.SelfLockHash {
		return types.Err(types.CodeInvalidOutputLockHash, "output cell lock hash does not match this rollup")
	}
	return nil
}

// ChallengeCellRef is the portion of the being-spent challenge cell
// RevertBlock needs: its data-hash and type-hash (to locate and
// authenticate it among the transaction's inputs), the relative "since"
// lock on the input that spends it, its parsed type-script args, and
// its parsed data payload. Locating the cell among raw base-chain
// inputs is the caller's job (an adapter outside this package, the way
// the teacher's rpc/node layer does chain I/O and hands verify only
// already-decoded structs); this package only checks the fields once
// they're in hand.
type ChallengeCellRef struct {
	DataHash types.Hash
	TypeHash types.Hash
	Since    types.Since
	Args     types.ChallengeArgs
	Context  types.ChallengeContext
}
