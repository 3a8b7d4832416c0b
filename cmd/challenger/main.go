// SPDX-License-Identifier: MIT
// Dev: KryperAI

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"kryprollup/accountstore"
	"kryprollup/challenge"
	"kryprollup/executor"
	"kryprollup/types"
)

const defaultRPC = "http://localhost:8545"

func main() {
	fs := flag.NewFlagSet("challenger", flag.ExitOnError)
	rpcURL := fs.String("rpc", defaultRPC, "Node RPC URL to inspect")
	blockNum := fs.Uint64("block", 0, "Block number to audit")
	challengerIndex := fs.Uint64("challenger-index", 0, "Account index filing the challenge")
	fs.Parse(os.Args[1:])

	block, txs := fetchBlock(*rpcURL, *blockNum)
	fmt.Printf("auditing block %d: %d txs, ag_index %d\n", block.Number, len(txs), block.AgIndex)

	touchedIdx := challenge.TouchedAccounts(txs, block.AgIndex)
	touched := make([]types.TouchedAccount, 0, len(touchedIdx))
	for _, idx := range touchedIdx {
		acc, bal := fetchAccount(*rpcURL, idx)
		touched = append(touched, types.TouchedAccount{
			Account: acc,
			TokenKV: map[types.TokenID]uint64{types.NativeTokenID: bal},
		})
	}

	// This re-execution is a dry run against currently-live balances, not
	// a proof-backed check against block.PrevAccountRoot: this module
	// doesn't keep historical account-tree snapshots, so it can only
	// tell the operator whether replaying the block looks
	// consistent with the chain as it stands right now. A real dispute
	// still needs a historical Merkle-proof provider to build
	// InvalidChallengeRespond.TouchedAccountsProof before it can be
	// verified on-chain.
	store := accountstore.NewStore()
	for _, t := range touched {
		store.UpdateAccount(t.Account)
		for tok, bal := range t.TokenKV {
			store.UpdateBalance(t.Account.Index, tok, bal)
		}
	}

	var bad error
	for _, tx := range txs {
		if err := executor.Execute(store, tx, block.AgIndex); err != nil {
			bad = err
			break
		}
	}

	if bad != nil {
		fmt.Println("SUSPICIOUS: re-execution failed:", bad)
		printRespond(*challengerIndex, block, txs, touched)
		return
	}
	fmt.Println("block replays cleanly against live balances; no dispute witness generated")
}

func printRespond(challengerIndex uint64, block *types.Block, txs []*types.Tx, touched []types.TouchedAccount) {
	ctx := types.ChallengeContext{Block: block, Txs: txs, ChallengerIndex: challengerIndex}
	respond := types.InvalidChallengeRespond{TouchedAccounts: touched}

	out, _ := json.MarshalIndent(struct {
		Context types.ChallengeContext         `json:"context"`
		Respond types.InvalidChallengeRespond `json:"respond"`
	}{ctx, respond}, "", "  ")
	fmt.Println(string(out))
}

func fetchBlock(rpcURL string, number uint64) (*types.Block, []*types.Tx) {
	url := fmt.Sprintf("%s/block?number=%d", strings.TrimRight(rpcURL, "/"), number)
	var out struct {
		Block *types.Block `json:"block"`
		Txs   []*types.Tx  `json:"txs"`
	}
	if err := httpGetJSON(url, &out); err != nil {
		log.Fatal(err)
	}
	if out.Block == nil {
		log.Fatalf("block %d not found", number)
	}
	return out.Block, out.Txs
}

func fetchAccount(rpcURL string, index uint64) (*types.Account, uint64) {
	url := fmt.Sprintf("%s/account?index=%d", strings.TrimRight(rpcURL, "/"), index)
	var out struct {
		Index      uint64 `json:"index"`
		PubkeyHash string `json:"pubkeyHash"`
		Nonce      uint32 `json:"nonce"`
		Balance    uint64 `json:"balance"`
	}
	if err := httpGetJSON(url, &out); err != nil {
		log.Fatal(err)
	}
	pkh, err := types.PubkeyHashFromHex(out.PubkeyHash)
	if err != nil {
		log.Fatal(err)
	}
	return types.NewAccount(out.Index, pkh), out.Balance
}

func httpGetJSON(url string, v any) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
