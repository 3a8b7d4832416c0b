package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTxSigningMessageExcludesWitness(t *testing.T) {
	tx := &Tx{SenderIndex: 0, ToIndex: 1, Nonce: 1, Amount: TokenAmount{Amount: 15}}
	before := tx.SigningMessage()

	tx.Witness = Signature65{1, 2, 3}
	after := tx.SigningMessage()

	require.Equal(t, before, after, "signing message must not depend on the witness field")
}

func TestTxHashIncludesWitness(t *testing.T) {
	tx := &Tx{SenderIndex: 0, ToIndex: 1, Nonce: 1, Amount: TokenAmount{Amount: 15}}
	before := tx.Hash()

	tx.Witness = Signature65{1, 2, 3}
	after := tx.Hash()

	require.NotEqual(t, before, after, "tx hash must cover the signed witness")
}

func TestTxSerializeLength(t *testing.T) {
	tx := &Tx{SenderIndex: 0, ToIndex: 1, Nonce: 1}
	require.Len(t, tx.Serialize(), 8+8+32+8+32+8+4+65)
	require.Len(t, tx.SignBytes(), 8+8+32+8+32+8+4)
}
