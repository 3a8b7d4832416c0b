// SPDX-License-Identifier: MIT
// Dev: KryperAI

package verifier

import "kryprollup/types"

// Verify dispatches a single action transition against the §4.6 state
// machine table. challenge is only consulted for RevertBlock; callers
// pass the zero value otherwise.
func Verify(ctx *Context, old, new types.GlobalState, cell CellContext, challenge ChallengeCellRef, action *types.Action) error {
	if action == nil {
		return types.Err(types.CodeInvalidWitness, "missing action")
	}
	if err := ctx.CheckSingleOutputCell(cell); err != nil {
		return err
	}

	switch action.Kind {
	case types.ActionRegister:
		return verifyRegister(old, new, cell, action.Register)
	case types.ActionDeposit:
		return verifyDeposit(old, new, cell, action.Deposit)
	case types.ActionSubmitBlock:
		return verifySubmitBlock(old, new, cell, action.SubmitBlock)
	case types.ActionRevertBlock:
		return verifyRevertBlock(ctx, old, new, challenge, action.RevertBlock)
	default:
		return types.Err(types.CodeInvalidWitness, "unrecognized action kind %d", action.Kind)
	}
}
