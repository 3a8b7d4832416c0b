// SPDX-License-Identifier: MIT
// Dev: KryperAI

package config

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/joho/godotenv"

	"kryprollup/secp256k1"
	"kryprollup/types"
)

// Config is a rollup node's runtime configuration: which role(s) it
// plays (aggregator, verifier-only watcher, challenger) and the
// connection details for the RPC surface and peer set.
type Config struct {
	AgIndex       uint64
	AgPrivKey     *ecdsa.PrivateKey
	AgPubkeyHash  types.PubkeyHash
	SelfTypeHash  types.Hash
	SelfLockHash  types.Hash
	ChallengeHash types.Hash

	RPCPort   string
	NetworkID uint64
	PeerList  string

	Role string // "aggregator", "watcher", or "challenger"
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		RPCPort:   getEnv("RPC_PORT", "8545"),
		NetworkID: getEnvUint64("NETWORK_ID", 1),
		PeerList:  getEnv("PEER_LIST", ""),
		Role:      getEnv("ROLE", "watcher"),
	}

	var err error
	if cfg.SelfTypeHash, err = hashFromEnv("SELF_TYPE_HASH"); err != nil {
		return nil, fmt.Errorf("config: SELF_TYPE_HASH: %w", err)
	}
	if cfg.SelfLockHash, err = hashFromEnv("SELF_LOCK_HASH"); err != nil {
		return nil, fmt.Errorf("config: SELF_LOCK_HASH: %w", err)
	}
	if cfg.ChallengeHash, err = hashFromEnv("CHALLENGE_CONTRACT_CODE_HASH"); err != nil {
		return nil, fmt.Errorf("config: CHALLENGE_CONTRACT_CODE_HASH: %w", err)
	}

	agIndexStr := cleanEnvValue(os.Getenv("AG_INDEX"))
	if agIndexStr != "" {
		idx, err := strconv.ParseUint(agIndexStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("config: invalid AG_INDEX: %w", err)
		}
		cfg.AgIndex = idx
	}

	agPrivStr := cleanEnvValue(os.Getenv("AG_PRIVATE_KEY"))
	if agPrivStr != "" {
		privBytes, err := hex.DecodeString(strings.TrimPrefix(agPrivStr, "0x"))
		if err != nil {
			return nil, fmt.Errorf("config: invalid AG_PRIVATE_KEY: %w", err)
		}
		priv, err := ethcrypto.ToECDSA(privBytes)
		if err != nil {
			return nil, fmt.Errorf("config: AG_PRIVATE_KEY: %w", err)
		}
		cfg.AgPrivKey = priv
		cfg.AgPubkeyHash = secp256k1.PubkeyHashOf(priv)
	} else if cfg.Role == "aggregator" {
		priv, err := ethcrypto.GenerateKey()
		if err != nil {
			return nil, fmt.Errorf("config: generating aggregator key: %w", err)
		}
		cfg.AgPrivKey = priv
		cfg.AgPubkeyHash = secp256k1.PubkeyHashOf(priv)
	}

	return cfg, nil
}

func (c *Config) Print() {
	fmt.Println("=== kryprollup configuration ===")
	fmt.Printf("  Role:            %s\n", c.Role)
	if c.AgPrivKey != nil {
		fmt.Printf("  Aggregator index: %d\n", c.AgIndex)
		fmt.Printf("  Aggregator pkh:   %s\n", c.AgPubkeyHash)
	}
	fmt.Printf("  Self type hash:  %s\n", c.SelfTypeHash)
	fmt.Printf("  Self lock hash:  %s\n", c.SelfLockHash)
	fmt.Printf("  Challenge hash:  %s\n", c.ChallengeHash)
	fmt.Printf("  RPC port:        %s\n", c.RPCPort)
	fmt.Printf("  Network ID:      %d\n", c.NetworkID)
	if c.PeerList != "" {
		fmt.Printf("  Peer list:       %s\n", c.PeerList)
	}
	fmt.Println("=================================")
}

func hashFromEnv(key string) (types.Hash, error) {
	val := cleanEnvValue(os.Getenv(key))
	if val == "" {
		return types.ZeroHash(), nil
	}
	return types.HashFromHex(val)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvUint64(key string, defaultVal uint64) uint64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseUint(val, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func cleanEnvValue(val string) string {
	val = strings.TrimSpace(val)
	if idx := strings.Index(val, "#"); idx != -1 {
		val = strings.TrimSpace(val[:idx])
	}
	return val
}
