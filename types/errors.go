// SPDX-License-Identifier: MIT
// Dev: KryperAI

package types

import "fmt"

// Code is a stable small-integer error code, surfaced as the verifier's
// exit status the way an on-chain script surfaces a nonzero exit code.
type Code int

const (
	CodeOK Code = 0

	// Encoding
	CodeInvalidEncoding Code = -iota - 1
	CodeInvalidWitness
	CodeInvalidGlobalState
	CodeInvalidScript

	// Layout (single-cell rule)
	CodeInvalidOutputTypeHash
	CodeInvalidOutputLockHash

	// Arithmetic / capacity
	CodeIncorrectCapacity
	CodeBalanceNotEnough
	CodeBalanceOverflow

	// Account / protocol
	CodeInvalidAccountIndex
	CodeInvalidAccountCount
	CodeInvalidAccountScript
	CodeInvalidAccountNonce
	CodeInvalidDepositAmount
	CodeInvalidAggregator
	CodeInvalidAggregatorIndex
	CodeInvalidChallengerIndex

	// Proofs
	CodeInvalidAccountMerkleProof
	CodeInvalidBlockMerkleProof
	CodeInvalidTxMerkleProof
	CodeInvalidKVMerkleProof

	// Crypto
	CodeInvalidSignature
	CodeInvalidSignatureRecoverID
	CodeRecoveryPubkey
	CodeWrongPubkeyHash

	// Fraud-proof
	CodeTryRevertRevertedBlock
	CodeInvalidChallengeCell
	CodeInvalidChallengeContext
	CodeInvalidSince
	CodeNoUnlockCell
	CodeMissingAgAccount
	CodeMissingChallengerAccount
	CodeTryRevertValidBlock

	// Executor-level (surfaced to the aggregator / InvalidChallenge re-execution)
	CodeMissingAccount
	CodeInvalidNonce
	CodeContractCall
)

var codeNames = map[Code]string{
	CodeOK:                        "OK",
	CodeInvalidEncoding:           "InvalidEncoding",
	CodeInvalidWitness:            "InvalidWitness",
	CodeInvalidGlobalState:        "InvalidGlobalState",
	CodeInvalidScript:             "InvalidScript",
	CodeInvalidOutputTypeHash:     "InvalidOutputTypeHash",
	CodeInvalidOutputLockHash:     "InvalidOutputLockHash",
	CodeIncorrectCapacity:         "IncorrectCapacity",
	CodeBalanceNotEnough:          "BalanceNotEnough",
	CodeBalanceOverflow:           "BalanceOverflow",
	CodeInvalidAccountIndex:       "InvalidAccountIndex",
	CodeInvalidAccountCount:       "InvalidAccountCount",
	CodeInvalidAccountScript:      "InvalidAccountScript",
	CodeInvalidAccountNonce:       "InvalidAccountNonce",
	CodeInvalidDepositAmount:      "InvalidDepositAmount",
	CodeInvalidAggregator:         "InvalidAggregator",
	CodeInvalidAggregatorIndex:    "InvalidAggregatorIndex",
	CodeInvalidChallengerIndex:    "InvalidChallengerIndex",
	CodeInvalidAccountMerkleProof: "InvalidAccountMerkleProof",
	CodeInvalidBlockMerkleProof:   "InvalidBlockMerkleProof",
	CodeInvalidTxMerkleProof:      "InvalidTxMerkleProof",
	CodeInvalidKVMerkleProof:      "InvalidKVMerkleProof",
	CodeInvalidSignature:          "InvalidSignature",
	CodeInvalidSignatureRecoverID: "InvalidSignatureRecoverId",
	CodeRecoveryPubkey:            "RecoveryPubkey",
	CodeWrongPubkeyHash:           "WrongPubkeyHash",
	CodeTryRevertRevertedBlock:    "TryRevertRevertedBlock",
	CodeInvalidChallengeCell:      "InvalidChallengeCell",
	CodeInvalidChallengeContext:   "InvalidChallengeContext",
	CodeInvalidSince:              "InvalidSince",
	CodeNoUnlockCell:              "NoUnlockCell",
	CodeMissingAgAccount:          "MissingAgAccount",
	CodeMissingChallengerAccount:  "MissingChallengerAccount",
	CodeTryRevertValidBlock:       "TryRevertValidBlock",
	CodeMissingAccount:            "MissingAccount",
	CodeInvalidNonce:              "InvalidNonce",
	CodeContractCall:              "ContractCall",
}

func (c Code) String() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// VerifyError is the fail-fast error surfaced by the verifier, executor,
// and challenge contract. The first failing check wins; nothing is
// recovered locally.
type VerifyError struct {
	Code   Code
	Detail string
}

func (e *VerifyError) Error() string {
	if e.Detail == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

func Err(code Code, detail string, args ...any) *VerifyError {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &VerifyError{Code: code, Detail: detail}
}

// CodeOf extracts the Code carried by err, or CodeOK if err is nil.
// Non-VerifyError errors map to CodeInvalidEncoding, the catch-all for
// "something was malformed in a way we didn't anticipate a typed code for".
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	if ve, ok := err.(*VerifyError); ok {
		return ve.Code
	}
	return CodeInvalidEncoding
}
