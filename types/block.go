// SPDX-License-Identifier: MIT
// Dev: KryperAI

package types

import (
	"encoding/binary"
)

// Block is an aggregator-submitted batch commitment. Checkpoint fields
// some source revisions carry (intermediate per-tx-batch roots) are
// dropped per Open Question #2: only the single prev/next account root
// pair is kept.
type Block struct {
	Number           uint64      `json:"number"`
	TxRoot           Hash        `json:"txRoot"`
	TxsCount         uint32      `json:"txsCount"`
	AgIndex          uint64      `json:"agIndex"`
	PrevAccountRoot  Hash        `json:"prevAccountRoot"`
	PrevAccountCount uint64      `json:"prevAccountCount"`
	AccountRoot      Hash        `json:"accountRoot"`
	AccountCount     uint64      `json:"accountCount"`
	AgSig            Signature65 `json:"agSig"`
}

// Serialize matches §6: number(8) || tx_root(32) || txs_count(4) ||
// ag_index(8) || prev_account_root(32) || prev_account_count(8) ||
// account_root(32) || account_count(8) || ag_sig(65).
func (b *Block) Serialize() []byte {
	buf := make([]byte, 0, 8+32+4+8+32+8+32+8+65)
	var u8 [8]byte
	var u4 [4]byte

	binary.LittleEndian.PutUint64(u8[:], b.Number)
	buf = append(buf, u8[:]...)
	buf = append(buf, b.TxRoot[:]...)
	binary.LittleEndian.PutUint32(u4[:], b.TxsCount)
	buf = append(buf, u4[:]...)
	binary.LittleEndian.PutUint64(u8[:], b.AgIndex)
	buf = append(buf, u8[:]...)
	buf = append(buf, b.PrevAccountRoot[:]...)
	binary.LittleEndian.PutUint64(u8[:], b.PrevAccountCount)
	buf = append(buf, u8[:]...)
	buf = append(buf, b.AccountRoot[:]...)
	binary.LittleEndian.PutUint64(u8[:], b.AccountCount)
	buf = append(buf, u8[:]...)
	buf = append(buf, b.AgSig[:]...)
	return buf
}

// SigningMessage is M = BLAKE2b(serialize(B with ag_sig := 0x00x65)).
func (b *Block) SigningMessage() Hash {
	clone := *b
	clone.AgSig = Signature65{}
	return PersonalHash(clone.Serialize())
}

// Hash is the leaf digest committed into the block-chain MMR.
func (b *Block) Hash() Hash {
	return PersonalHash(b.Serialize())
}

// IsReverted reports whether the block has already been replaced by its
// RevertBlock terminal form: tx_root == 0 AND ag_sig == 0.
func (b *Block) IsReverted() bool {
	return b.TxRoot.IsZero() && b.AgSig.IsZero()
}

// Reverted builds the §4.6.4/Open-Question-#4 reverted form of b: a
// fresh Block with tx_root=0, txs_count=0, ag_sig=0, ag_index set to the
// challenger, and account_root set to the post-reward root.
func Reverted(b *Block, newAccountRoot Hash, challengerIndex uint64) *Block {
	return &Block{
		Number:           b.Number,
		TxRoot:           ZeroHash(),
		TxsCount:         0,
		AgIndex:          challengerIndex,
		PrevAccountRoot:  b.PrevAccountRoot,
		PrevAccountCount: b.PrevAccountCount,
		AccountRoot:      newAccountRoot,
		AccountCount:     b.AccountCount,
		AgSig:            Signature65{},
	}
}
