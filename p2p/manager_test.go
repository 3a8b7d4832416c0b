package p2p

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kryprollup/types"
)

type recordingTransport struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingTransport) PostJSON(peer *Peer, path string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, peer.BaseURL+path)
	return nil
}

func (r *recordingTransport) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func TestManagerSkipsBlankPeers(t *testing.T) {
	m := NewManager([]string{"", "  ", "peer-a:1"})
	require.Len(t, m.peers, 1)
}

func TestBroadcastActionFansOutToEveryPeer(t *testing.T) {
	m := NewManager([]string{"peer-a:1", "peer-b:2"})
	rec := &recordingTransport{}
	m.transport = rec

	action := &types.Action{Kind: types.ActionRegister}
	m.BroadcastAction(action, 1000)

	require.Eventually(t, func() bool { return rec.count() == 2 }, time.Second, 5*time.Millisecond)
}

func TestBroadcastActionNoopWithoutPeers(t *testing.T) {
	m := NewManager(nil)
	rec := &recordingTransport{}
	m.transport = rec

	m.BroadcastAction(&types.Action{Kind: types.ActionRegister}, 0)
	require.Equal(t, 0, rec.count())
}

func TestBroadcastTxFansOutToEveryPeer(t *testing.T) {
	m := NewManager([]string{"peer-a:1"})
	rec := &recordingTransport{}
	m.transport = rec

	m.BroadcastTx(&types.Tx{SenderIndex: 0, ToIndex: 1, Nonce: 1})
	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)
}
