// SPDX-License-Identifier: MIT
// Dev: KryperAI

package types

import "golang.org/x/crypto/blake2b"

// HashPersonal is the 16-byte domain-separation tag every protocol hash
// is keyed with (§6 HASH_PERSONAL). It lives here, rather than in
// hashmmr, so that plain struct hashing (Tx, Block, Account) and the
// MMR/SMT node-merge function share one primitive without hashmmr and
// types importing each other.
var HashPersonal = []byte("ckb-default-hash")

// PersonalHash concatenates parts and returns their personalized
// BLAKE2b-256 digest. golang.org/x/crypto/blake2b does not expose the
// RFC personalization parameter directly, so the tag is applied as the
// keyed-MAC key instead (blake2b-256 accepts keys up to 64 bytes,
// comfortably covering the 16-byte tag) — a deliberate, documented
// substitution for real BLAKE2b personalization, not a hand-rolled hash.
func PersonalHash(parts ...[]byte) Hash {
	h, err := blake2b.New256(HashPersonal)
	if err != nil {
		panic(err) // key length is fixed and always valid
	}
	for _, p := range parts {
		h.Write(p)
	}
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}
