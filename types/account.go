// SPDX-License-Identifier: MIT
// Dev: KryperAI

package types

import (
	"encoding/binary"
)

/* ========================= *
       ACCOUNT STRUCT
* ========================= */

// Account is the externally-owned identity rooted in the account SMT.
// Balances never live here (Open Question #1): they live solely in the
// per-token SMT leaves owned by accountstore.Store.
type Account struct {
	Index      uint64     `json:"index"`
	PubkeyHash PubkeyHash `json:"pubkeyHash"`
	Nonce      uint32     `json:"nonce"`

	// Script is the serialized contract script; nil/empty means
	// externally-owned. Contract accounts are reserved for future
	// extension and always rejected by the current protocol.
	Script []byte `json:"script,omitempty"`
}

func NewAccount(index uint64, pubkeyHash PubkeyHash) *Account {
	return &Account{Index: index, PubkeyHash: pubkeyHash}
}

func (a *Account) IsContract() bool {
	return len(a.Script) > 0
}

func (a *Account) Copy() *Account {
	if a == nil {
		return nil
	}
	cp := *a
	if a.Script != nil {
		cp.Script = append([]byte(nil), a.Script...)
	}
	return &cp
}

// Serialize matches the §6 wire layout: index(8) || pubkey_hash(20) ||
// nonce(4) || script(var, length-prefixed).
func (a *Account) Serialize() []byte {
	buf := make([]byte, 8+20+4, 8+20+4+4+len(a.Script))
	binary.LittleEndian.PutUint64(buf[0:8], a.Index)
	copy(buf[8:28], a.PubkeyHash[:])
	binary.LittleEndian.PutUint32(buf[28:32], a.Nonce)

	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(a.Script)))
	buf = append(buf, lenBuf[:]...)
	buf = append(buf, a.Script...)
	return buf
}

// Hash is the blake2b digest used as an SMT leaf value when the account
// record is longer than 32 bytes (it always is, once the script length
// prefix is counted).
func (a *Account) Hash() Hash {
	return PersonalHash(a.Serialize())
}
