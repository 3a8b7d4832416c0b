package smt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"kryprollup/types"
)

func key(b byte) types.Hash {
	var h types.Hash
	h[31] = b
	return h
}

func TestTreeEmptyRootIsZero(t *testing.T) {
	tr := NewTree()
	require.True(t, tr.Root().IsZero())
}

func TestTreeUpdateAndDelete(t *testing.T) {
	tr := NewTree()
	tr.Update(key(1), Uint64Value(42))
	require.Equal(t, 1, tr.Len())
	root1 := tr.Root()
	require.False(t, root1.IsZero())

	tr.Update(key(1), Uint64Value(0))
	require.Equal(t, 0, tr.Len(), "zero-value update deletes the leaf")
	require.True(t, tr.Root().IsZero())
	require.NotEqual(t, root1, tr.Root())
}

func TestTreeOrderIndependence(t *testing.T) {
	a := NewTree()
	a.Update(key(1), Uint64Value(10))
	a.Update(key(2), Uint64Value(20))
	a.Update(key(3), Uint64Value(30))

	b := NewTree()
	b.Update(key(3), Uint64Value(30))
	b.Update(key(1), Uint64Value(10))
	b.Update(key(2), Uint64Value(20))

	require.Equal(t, a.Root(), b.Root())
}

func TestTreeCloneIsIndependent(t *testing.T) {
	tr := NewTree()
	tr.Update(key(1), Uint64Value(10))
	clone := tr.Clone()

	tr.Update(key(2), Uint64Value(20))
	require.NotEqual(t, tr.Root(), clone.Root())
	require.Equal(t, 1, clone.Len())
}

func TestGenProofRoundTripSingleLeaf(t *testing.T) {
	tr := NewTree()
	tr.Update(key(1), Uint64Value(10))
	tr.Update(key(2), Uint64Value(20))
	tr.Update(key(3), Uint64Value(30))

	root := tr.Root()
	proof, err := tr.GenProof([]types.Hash{key(2)})
	require.NoError(t, err)

	got, err := ComputeRootWithProof(map[types.Hash]types.Hash{key(2): Uint64Value(20).Digest()}, proof)
	require.NoError(t, err)
	require.Equal(t, root, got)
}

func TestGenProofNonMembership(t *testing.T) {
	tr := NewTree()
	tr.Update(key(1), Uint64Value(10))

	root := tr.Root()
	proof, err := tr.GenProof([]types.Hash{key(99)})
	require.NoError(t, err)

	got, err := ComputeRootWithProof(map[types.Hash]types.Hash{key(99): types.ZeroHash()}, proof)
	require.NoError(t, err)
	require.Equal(t, root, got)
}

func TestComputeRootWithProofUpdateUnderProof(t *testing.T) {
	tr := NewTree()
	tr.Update(key(1), Uint64Value(10))
	tr.Update(key(2), Uint64Value(20))

	proof, err := tr.GenProof([]types.Hash{key(1)})
	require.NoError(t, err)

	oldRoot, err := ComputeRootWithProof(map[types.Hash]types.Hash{key(1): Uint64Value(10).Digest()}, proof)
	require.NoError(t, err)
	require.Equal(t, tr.Root(), oldRoot)

	newRoot, err := ComputeRootWithProof(map[types.Hash]types.Hash{key(1): Uint64Value(99).Digest()}, proof)
	require.NoError(t, err)

	tr.Update(key(1), Uint64Value(99))
	require.Equal(t, tr.Root(), newRoot)
}

func TestComputeRootWithProofMultipleKeys(t *testing.T) {
	tr := NewTree()
	for i := byte(1); i <= 5; i++ {
		tr.Update(key(i), Uint64Value(uint64(i)*10))
	}
	root := tr.Root()

	keys := []types.Hash{key(2), key(4)}
	proof, err := tr.GenProof(keys)
	require.NoError(t, err)

	claimed := map[types.Hash]types.Hash{
		key(2): Uint64Value(20).Digest(),
		key(4): Uint64Value(40).Digest(),
	}
	got, err := ComputeRootWithProof(claimed, proof)
	require.NoError(t, err)
	require.Equal(t, root, got)
}
