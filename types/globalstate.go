// SPDX-License-Identifier: MIT
// Dev: KryperAI

package types

import (
	"encoding/binary"
	"errors"
)

// GlobalState is the 80-byte on-chain commitment to all rollup state:
// account_root(32) || block_root(32) || account_count(8) || block_count(8).
type GlobalState struct {
	AccountRoot  Hash   `json:"accountRoot"`
	BlockRoot    Hash   `json:"blockRoot"`
	AccountCount uint64 `json:"accountCount"`
	BlockCount   uint64 `json:"blockCount"`
}

const GlobalStateSize = 32 + 32 + 8 + 8

func (g GlobalState) Serialize() []byte {
	buf := make([]byte, GlobalStateSize)
	copy(buf[0:32], g.AccountRoot[:])
	copy(buf[32:64], g.BlockRoot[:])
	binary.LittleEndian.PutUint64(buf[64:72], g.AccountCount)
	binary.LittleEndian.PutUint64(buf[72:80], g.BlockCount)
	return buf
}

func DeserializeGlobalState(b []byte) (GlobalState, error) {
	var g GlobalState
	if len(b) != GlobalStateSize {
		return g, errors.New("invalid global state length")
	}
	copy(g.AccountRoot[:], b[0:32])
	copy(g.BlockRoot[:], b[32:64])
	g.AccountCount = binary.LittleEndian.Uint64(b[64:72])
	g.BlockCount = binary.LittleEndian.Uint64(b[72:80])
	return g, nil
}

func (g GlobalState) Equal(o GlobalState) bool {
	return g.AccountRoot == o.AccountRoot &&
		g.BlockRoot == o.BlockRoot &&
		g.AccountCount == o.AccountCount &&
		g.BlockCount == o.BlockCount
}
