// SPDX-License-Identifier: MIT
// Dev: KryperAI

package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"kryprollup/aggregator"
	"kryprollup/config"
	"kryprollup/node"
	"kryprollup/p2p"
	"kryprollup/rpc"
	"kryprollup/types"
	"kryprollup/verifier"
)

func main() {
	rpcPortFlag := flag.String("port", "", "RPC port (overrides RPC_PORT env)")
	peerListFlag := flag.String("peers", "", "Comma separated peer URLs (overrides PEER_LIST env)")
	genesisPubkeyHash := flag.String("genesis-pubkey-hash", "", "Register this pubkey_hash as account 0 at startup (aggregator role only)")
	genesisDeposit := flag.Uint64("genesis-deposit", 1000, "Opening native balance for the genesis account")
	flag.Parse()

	fmt.Println("=== KRYPROLLUP NODE START ===")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("CONFIG ERROR:", err)
	}
	if *rpcPortFlag != "" {
		cfg.RPCPort = *rpcPortFlag
	}
	if *peerListFlag != "" {
		cfg.PeerList = *peerListFlag
	}
	cfg.Print()

	mirror := aggregator.NewMirror(cfg.AgIndex)

	if cfg.Role == "aggregator" && *genesisPubkeyHash != "" {
		pkh, err := types.PubkeyHashFromHex(*genesisPubkeyHash)
		if err != nil {
			log.Fatal("GENESIS PUBKEY HASH:", err)
		}
		action, account, err := aggregator.Bootstrap(mirror, pkh, *genesisDeposit)
		if err != nil {
			log.Fatal("GENESIS:", err)
		}
		fmt.Printf("GENESIS OK: account %d registered, pubkey_hash %s\n", account.Index, account.PubkeyHash)
		_ = action // the genesis Register action lands on the base chain out-of-band, by whoever deploys this rollup
	}

	verifierCtx := &verifier.Context{
		SelfTypeHash:              cfg.SelfTypeHash,
		SelfLockHash:              cfg.SelfLockHash,
		ChallengeContractCodeHash: cfg.ChallengeHash,
	}

	var peers []string
	if cfg.PeerList != "" {
		peers = strings.Split(cfg.PeerList, ",")
	}
	manager := p2p.NewManager(peers)

	initial := types.GlobalState{
		AccountRoot:  mirror.Accounts().Root(),
		BlockRoot:    types.ZeroHash(),
		AccountCount: mirror.Accounts().Count(),
		BlockCount:   0,
	}

	n := node.NewNode(mirror, verifierCtx, cfg.AgPrivKey, initial, loggingSubmitter{})
	n.SetBroadcaster(manager)
	n.Start()

	server := rpc.NewServer(n)
	addr := ":" + cfg.RPCPort
	fmt.Println("RPC:", addr)
	if err := server.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// loggingSubmitter stands in for the real base-chain transaction
// builder/broadcaster, which is outside this module's scope (the same
// boundary node.Submitter's doc comment draws): it only logs what would
// have been submitted, for local testing and demos.
type loggingSubmitter struct{}

func (loggingSubmitter) Submit(action *types.Action, cell verifier.CellContext) error {
	log.Printf("SUBMIT: %s action", action.Kind)
	return nil
}
