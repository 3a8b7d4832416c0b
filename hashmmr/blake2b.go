// SPDX-License-Identifier: MIT
// Dev: KryperAI

// Package hashmmr provides the protocol's personalized BLAKE2b digest
// (C1) and an append-only Merkle Mountain Range over it.
package hashmmr

import "kryprollup/types"

// PersonalHash is the shared protocol hash primitive, re-exported here
// so MMR/SMT code reads naturally as "hashmmr.PersonalHash" instead of
// reaching into the types package for it.
func PersonalHash(parts ...[]byte) types.Hash {
	return types.PersonalHash(parts...)
}

// Merge is the MMR/SMT node-combination function: M(l, r) = BLAKE2b(l||r).
func Merge(left, right types.Hash) types.Hash {
	return PersonalHash(left[:], right[:])
}
