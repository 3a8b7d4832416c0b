// SPDX-License-Identifier: MIT
// Dev: KryperAI

// Package accountstore is the off-chain mirror of the on-chain account
// SMT (C3): it keeps full account records and token balances, using
// smt.Tree purely as the commitment structure over their digests.
package accountstore

import (
	"encoding/binary"

	"kryprollup/hashmmr"
	"kryprollup/types"
)

// IndexKey derives the SMT key an account's record is stored under:
// BLAKE2b("I" || index_le).
func IndexKey(index uint64) types.Hash {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, index)
	return hashmmr.PersonalHash([]byte("I"), buf)
}

// TokenKey derives the SMT key a balance is stored under:
// BLAKE2b("T" || index_le || token_id).
func TokenKey(index uint64, token types.TokenID) types.Hash {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, index)
	return hashmmr.PersonalHash([]byte("T"), buf, token[:])
}
