// SPDX-License-Identifier: MIT
// Dev: KryperAI

// Package verifier is the on-chain action verifier (§4.6): a pure
// function from (old GlobalState, new GlobalState, base-chain cell
// layout, Action) to nil-or-typed-error. It never touches a live
// chainstore/accountstore — every fact it needs arrives as a witness
// the caller (aggregator, challenger, or test fixture) supplies, the
// same separation the teacher draws between its stateless verify
// package and the stateful node/chainstore packages.
package verifier

import "kryprollup/types"

const (
	// NewAccountRequiredBalance is the minimum native deposit Register
	// must see before it will mint a new account (§4.6.1).
	NewAccountRequiredBalance = 1000

	// AggregatorRequiredBalance is the minimum native balance an
	// aggregator account must hold for SubmitBlock to accept its
	// block (§4.6.3).
	AggregatorRequiredBalance = 2000

	// ChallengeRewardNumerator / ChallengeRewardDenominator compute
	// the challenger's reward as floor(ag_native * num / den) on a
	// successful RevertBlock (§4.6.4).
	ChallengeRewardNumerator   = 8
	ChallengeRewardDenominator = 10

	// ChallengeCellWaitBlocks is the minimum relative block-number
	// "since" lock a challenge cell's being-spent input must carry
	// before RevertBlock will honor it (§4.6.4).
	ChallengeCellWaitBlocks = 100

	// WithdrawWaitEpochs is the relative epoch lock a withdraw-lock
	// cell carries before a challenger can reclaim an unrefuted bond
	// (§4.8).
	WithdrawWaitEpochs = 6
)

// NativeTokenID is the zero TokenID, re-exported here so verifier call
// sites read naturally without reaching into types for it.
var NativeTokenID = types.NativeTokenID
