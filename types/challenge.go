// SPDX-License-Identifier: MIT
// Dev: KryperAI

package types

// ChallengeContext is the challenge cell's data payload: the block
// being accused plus the txs it claims were invalidly executed.
type ChallengeContext struct {
	Block           *Block `json:"block"`
	Txs             []*Tx  `json:"txs"`
	ChallengerIndex uint64 `json:"challengerIndex"`
}

// ChallengeArgs is the challenge cell's type-script args: it pins the
// challenge to exactly one rollup verifier instance and one withdraw
// lock.
type ChallengeArgs struct {
	MainTypeHash    Hash `json:"mainTypeHash"`
	WithdrawLockHash Hash `json:"withdrawLockHash"`
}

// TouchedAccount is one leaf of the fraud-proof re-execution witness:
// an account plus every token balance the challenged txs touched for it.
type TouchedAccount struct {
	Account *Account           `json:"account"`
	TokenKV map[TokenID]uint64 `json:"tokenKv"`
}

// InvalidChallengeRespond is the defender's refutation: re-execution
// witness for every touched account (§4.8b).
type InvalidChallengeRespond struct {
	TouchedAccounts      []TouchedAccount `json:"touchedAccounts"`
	TouchedAccountsProof SMTProof         `json:"touchedAccountsProof"`
}

// WithdrawChallengeRespond is the challenger reclaiming their bond after
// the withdraw timeout (§4.8b).
type WithdrawChallengeRespond struct {
	WithdrawLockHash Hash `json:"withdrawLockHash"`
}

// ChallengeRespondKind discriminates the two mutually-exclusive destroy
// variants of a challenge cell.
type ChallengeRespondKind uint8

const (
	RespondWithdrawChallenge ChallengeRespondKind = iota
	RespondInvalidChallenge
)

// ChallengeRespond is the witness attached to a challenge-cell-destroying
// transaction.
type ChallengeRespond struct {
	Kind       ChallengeRespondKind
	Withdraw   *WithdrawChallengeRespond
	Invalid    *InvalidChallengeRespond
}
