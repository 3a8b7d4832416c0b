// SPDX-License-Identifier: MIT
// Dev: KryperAI

package challenge

import "kryprollup/types"

// TouchedAccounts lists, in first-seen order with duplicates removed,
// every account index a defender's InvalidChallenge witness must cover:
// the block's aggregator (every tx's fee recipient) plus each tx's
// sender and destination. A re-execution pass only needs state for
// accounts it can actually read or mutate — this is exactly that set.
func TouchedAccounts(txs []*types.Tx, agIndex uint64) []uint64 {
	seen := map[uint64]bool{agIndex: true}
	order := []uint64{agIndex}
	mark := func(idx uint64) {
		if !seen[idx] {
			seen[idx] = true
			order = append(order, idx)
		}
	}
	for _, tx := range txs {
		mark(tx.SenderIndex)
		mark(tx.ToIndex)
	}
	return order
}
