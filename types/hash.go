// SPDX-License-Identifier: MIT
// Dev: KryperAI

package types

import (
	"encoding/hex"
	"strings"
)

/* ========================= *
       HASH (32 bytes)
* ========================= */

type Hash [32]byte

func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

func (h Hash) IsZero() bool {
	return h == Hash{}
}

func (h Hash) Bytes() []byte {
	return h[:]
}

func ZeroHash() Hash {
	return Hash{}
}

func HashFromSlice(b []byte) Hash {
	var h Hash
	copy(h[:], b)
	return h
}

func HashFromHex(s string) (Hash, error) {
	s = strings.TrimPrefix(s, "0x")
	var h Hash
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, err
	}
	copy(h[:], b)
	return h, nil
}

/* ========================= *
      PUBKEY HASH (20 bytes)
* ========================= */

// PubkeyHash identifies an externally-owned account the way the base
// chain identifies a lock script: blake2b(compressed pubkey)[:20].
type PubkeyHash [20]byte

func (p PubkeyHash) String() string {
	return "0x" + hex.EncodeToString(p[:])
}

func (p PubkeyHash) IsZero() bool {
	return p == PubkeyHash{}
}

func PubkeyHashFromHex(s string) (PubkeyHash, error) {
	s = strings.TrimPrefix(s, "0x")
	var p PubkeyHash
	b, err := hex.DecodeString(s)
	if err != nil {
		return p, err
	}
	copy(p[:], b)
	return p, nil
}

/* ========================= *
     TOKEN ID (32 bytes)
* ========================= */

// TokenID names a fungible token; the all-zero id is the native token.
type TokenID [32]byte

var NativeTokenID = TokenID{}

func (t TokenID) IsNative() bool {
	return t == NativeTokenID
}

func (t TokenID) String() string {
	return "0x" + hex.EncodeToString(t[:])
}

/* ========================= *
    FIXED-SIZE SIGNATURE
* ========================= */

// Signature65 is a compact secp256k1 signature: R(32) || S(32) || V(1).
type Signature65 [65]byte

func (s Signature65) IsZero() bool {
	return s == Signature65{}
}
