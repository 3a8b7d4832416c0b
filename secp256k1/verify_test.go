package secp256k1

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"kryprollup/types"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	priv, err := crypto.GenerateKey()
	require.NoError(t, err)
	pkh := PubkeyHashOf(priv)

	msg := types.PersonalHash([]byte("transfer 15 to account 1"))
	sig, err := Sign(priv, msg)
	require.NoError(t, err)

	require.NoError(t, Verify(sig, msg, pkh))
}

func TestVerifyRejectsWrongPubkeyHash(t *testing.T) {
	priv, err := crypto.GenerateKey()
	require.NoError(t, err)
	other, err := crypto.GenerateKey()
	require.NoError(t, err)

	msg := types.PersonalHash([]byte("transfer"))
	sig, err := Sign(priv, msg)
	require.NoError(t, err)

	err = Verify(sig, msg, PubkeyHashOf(other))
	require.Error(t, err)
	require.Equal(t, types.CodeWrongPubkeyHash, types.CodeOf(err))
}

func TestVerifyRejectsTamperedMessage(t *testing.T) {
	priv, err := crypto.GenerateKey()
	require.NoError(t, err)
	pkh := PubkeyHashOf(priv)

	msg := types.PersonalHash([]byte("transfer 15"))
	sig, err := Sign(priv, msg)
	require.NoError(t, err)

	tampered := types.PersonalHash([]byte("transfer 16"))
	err = Verify(sig, tampered, pkh)
	require.Error(t, err)
	require.Equal(t, types.CodeWrongPubkeyHash, types.CodeOf(err))
}

func TestVerifyRejectsEmptyWitness(t *testing.T) {
	err := Verify(types.Signature65{}, types.PersonalHash([]byte("msg")), types.PubkeyHash{})
	require.Error(t, err)
	require.Equal(t, types.CodeInvalidSignature, types.CodeOf(err))
}

func TestSignRejectsNilKey(t *testing.T) {
	_, err := Sign(nil, types.PersonalHash([]byte("msg")))
	require.Error(t, err)
}

func TestRecoverPubkeyHashMatchesSigner(t *testing.T) {
	priv, err := crypto.GenerateKey()
	require.NoError(t, err)
	msg := types.PersonalHash([]byte("hello"))
	sig, err := Sign(priv, msg)
	require.NoError(t, err)

	got, err := RecoverPubkeyHash(sig, msg)
	require.NoError(t, err)
	require.Equal(t, PubkeyHashOf(priv), got)
}
