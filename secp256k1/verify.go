// SPDX-License-Identifier: MIT
// Dev: KryperAI

// Package secp256k1 implements the protocol's signature-recovery rule
// (§4.3, grounded on original_source/utils/src/secp256k1.rs): recover
// the compressed public key from a 65-byte signature, personalized-hash
// it, and truncate to 20 bytes to compare against a stored pubkey_hash.
package secp256k1

import (
	"crypto/ecdsa"
	"errors"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"kryprollup/types"
)

// RecoverPubkeyHash recovers the signer's pubkey_hash from a signature
// over msgHash.
func RecoverPubkeyHash(sig types.Signature65, msgHash types.Hash) (types.PubkeyHash, error) {
	pub, err := ethcrypto.SigToPub(msgHash[:], sig[:])
	if err != nil {
		return types.PubkeyHash{}, err
	}
	return pubkeyHash(pub), nil
}

// Verify checks that sig recovers to exactly `want` over msgHash,
// returning the typed §7 errors the verifier surfaces on failure.
func Verify(sig types.Signature65, msgHash types.Hash, want types.PubkeyHash) error {
	if sig.IsZero() {
		return types.Err(types.CodeInvalidSignature, "empty witness")
	}
	pub, err := ethcrypto.SigToPub(msgHash[:], sig[:])
	if err != nil {
		return types.Err(types.CodeRecoveryPubkey, "%v", err)
	}
	got := pubkeyHash(pub)
	if got != want {
		return types.Err(types.CodeWrongPubkeyHash, "recovered %s, want %s", got, want)
	}
	return nil
}

// Sign produces a 65-byte signature over msgHash, used by cmd/rolluctl
// and test fixtures — never by the verifier itself.
func Sign(priv *ecdsa.PrivateKey, msgHash types.Hash) (types.Signature65, error) {
	if priv == nil {
		return types.Signature65{}, errors.New("secp256k1: nil private key")
	}
	sig, err := ethcrypto.Sign(msgHash[:], priv)
	if err != nil {
		return types.Signature65{}, err
	}
	var out types.Signature65
	copy(out[:], sig)
	return out, nil
}

func PubkeyHashOf(priv *ecdsa.PrivateKey) types.PubkeyHash {
	return pubkeyHash(&priv.PublicKey)
}

func pubkeyHash(pub *ecdsa.PublicKey) types.PubkeyHash {
	compressed := ethcrypto.CompressPubkey(pub)
	digest := types.PersonalHash(compressed)
	var out types.PubkeyHash
	copy(out[:], digest[:20])
	return out
}
