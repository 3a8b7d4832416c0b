// SPDX-License-Identifier: MIT
// Dev: KryperAI

// Package smt is an in-memory sparse Merkle tree over a 256-bit key
// space, with compressed multi-leaf proofs (C2).
package smt

import (
	"kryprollup/hashmmr"
	"kryprollup/types"
)

// Value is a leaf payload before digesting. A zero-length Value is the
// canonical empty leaf (deletion); anything else becomes a 32-byte
// digest, used verbatim if it already fits and hashed down otherwise.
type Value []byte

func (v Value) IsEmpty() bool { return len(v) == 0 }

func (v Value) Digest() types.Hash {
	if len(v) == 0 {
		return types.ZeroHash()
	}
	if len(v) <= 32 {
		var h types.Hash
		copy(h[:], v)
		return h
	}
	return hashmmr.PersonalHash(v)
}

// Uint64Value renders a token balance the same way the account store
// keys it: 8-byte little-endian, which always fits the short path.
func Uint64Value(n uint64) Value {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(n >> (8 * i))
	}
	return Value(b)
}
