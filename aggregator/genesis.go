// SPDX-License-Identifier: MIT
// Dev: KryperAI

package aggregator

import "kryprollup/types"

// Bootstrap registers account 0 against a brand new mirror, matching
// Scenario A: the very first Register against an all-zero GlobalState.
// It returns the Register action a genesis deployer submits on-chain
// and applies it to the mirror immediately, so the same process that
// deploys the rollup cell can also be its first aggregator.
func Bootstrap(m *Mirror, pubkeyHash types.PubkeyHash, deposit uint64) (*types.Action, *types.Account, error) {
	action, account, err := BuildRegisterAction(m.accounts, pubkeyHash, deposit)
	if err != nil {
		return nil, nil, err
	}
	ApplyRegister(m.accounts, account, deposit)
	return action, account, nil
}
