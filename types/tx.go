// SPDX-License-Identifier: MIT
// Dev: KryperAI

package types

import (
	"encoding/binary"
)

// TokenAmount pairs a token id with a u64 amount, used for both the fee
// and the value leg of a Tx.
type TokenAmount struct {
	Token  TokenID `json:"token"`
	Amount uint64  `json:"amount"`
}

// Tx is a single user transfer. Witness is always a 65-byte secp256k1
// signature over SigningMessage (Open Question #3) — never a free-form
// args blob.
type Tx struct {
	SenderIndex uint64      `json:"senderIndex"`
	ToIndex     uint64      `json:"toIndex"`
	Fee         TokenAmount `json:"fee"`
	Amount      TokenAmount `json:"amount"`
	Nonce       uint32      `json:"nonce"`
	Witness     Signature65 `json:"witness"`
}

// Serialize matches §6: sender_index(8) || to_index(8) ||
// fee(token_id(32), amount(8)) || amount(token_id(32), amount(8)) ||
// nonce(4) || witness(65).
func (t *Tx) Serialize() []byte {
	buf := make([]byte, 0, 8+8+32+8+32+8+4+65)
	var u8 [8]byte
	var u4 [4]byte

	binary.LittleEndian.PutUint64(u8[:], t.SenderIndex)
	buf = append(buf, u8[:]...)
	binary.LittleEndian.PutUint64(u8[:], t.ToIndex)
	buf = append(buf, u8[:]...)

	buf = append(buf, t.Fee.Token[:]...)
	binary.LittleEndian.PutUint64(u8[:], t.Fee.Amount)
	buf = append(buf, u8[:]...)

	buf = append(buf, t.Amount.Token[:]...)
	binary.LittleEndian.PutUint64(u8[:], t.Amount.Amount)
	buf = append(buf, u8[:]...)

	binary.LittleEndian.PutUint32(u4[:], t.Nonce)
	buf = append(buf, u4[:]...)

	buf = append(buf, t.Witness[:]...)
	return buf
}

// SignBytes is what the sender actually signs: the tx payload without
// the witness field (the witness can't sign over itself).
func (t *Tx) SignBytes() []byte {
	full := t.Serialize()
	return full[:len(full)-65]
}

// SigningMessage is the digest a Tx's witness is a signature over —
// BLAKE2b of SignBytes, never of the full (witness-included) encoding,
// since a signature can't cover its own bytes.
func (t *Tx) SigningMessage() Hash {
	return PersonalHash(t.SignBytes())
}

// Hash is tx_hash = BLAKE2b(serialize(Tx)), the tx's identity once
// signed — committed into tx_root and used as the MMR leaf. It
// includes Witness, so it is only stable after signing.
func (t *Tx) Hash() Hash {
	return PersonalHash(t.Serialize())
}
