// SPDX-License-Identifier: MIT
// Dev: KryperAI

package p2p

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"kryprollup/types"
)

// Peer is a sibling rollup node reachable over HTTP — either another
// watcher mirroring this rollup's state, or the aggregator itself when
// a watcher gossips a pending tx upstream.
type Peer struct {
	BaseURL string
}

func NewPeer(raw string) *Peer {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "http://" + raw
	}

	raw = strings.TrimRight(raw, "/")

	return &Peer{BaseURL: raw}
}

// Transport abstracts network I/O for P2P messages.
type Transport interface {
	PostJSON(peer *Peer, path string, payload any) error
}

// HTTPTransport delivers a gossiped tx or Action to one peer, retrying
// with exponential backoff on a transient failure: a dropped
// BroadcastAction otherwise leaves a watcher's mirror silently stale
// until the aggregator's next block, with no other signal that it
// fell behind.
type HTTPTransport struct {
	client     *http.Client
	maxRetries int
	baseDelay  time.Duration
}

func NewHTTPTransport() *HTTPTransport {
	return &HTTPTransport{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		maxRetries: 3,
		baseDelay:  200 * time.Millisecond,
	}
}

func (t *HTTPTransport) PostJSON(peer *Peer, path string, payload any) error {
	if peer == nil {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	url := peer.BaseURL + path

	var lastErr error
	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := t.client.Do(req)
		if err != nil {
			lastErr = err
			if attempt < t.maxRetries {
				time.Sleep(t.baseDelay * time.Duration(uint(1)<<uint(attempt)))
				continue
			}
			break
		}
		_ = resp.Body.Close()
		return nil
	}

	log.Printf("p2p: POST %s failed after %d attempts: %v\n", url, t.maxRetries+1, lastErr)
	return lastErr
}

// Manager is a very simple HTTP-based gossip layer: it forwards pending
// txs and landed actions to known peer RPC endpoints, so every node
// watching the rollup can keep its own mirror in sync without all of
// them re-deriving state from the base chain independently.
type Manager struct {
	peers     []*Peer
	transport Transport
}

func NewManager(rawPeers []string) *Manager {
	peers := make([]*Peer, 0, len(rawPeers))
	for _, raw := range rawPeers {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if p := NewPeer(raw); p != nil {
			peers = append(peers, p)
		}
	}
	return &Manager{peers: peers, transport: NewHTTPTransport()}
}

// BroadcastTx forwards a pending tx to every peer's /p2p/tx endpoint.
func (m *Manager) BroadcastTx(tx *types.Tx) {
	if tx == nil || len(m.peers) == 0 {
		return
	}
	for _, peer := range m.peers {
		go m.transport.PostJSON(peer, "/p2p/tx", tx)
	}
}

// BroadcastAction forwards a landed Action (any of the four kinds) to
// every peer's /p2p/action endpoint, so their mirrors apply the same
// Register/Deposit/SubmitBlock/RevertBlock this node just saw confirmed.
// cellDeposit is the base-chain capacity delta that funded a Register
// or Deposit (ignored for the other two kinds — see
// node.Node.ApplyRemoteAction for why that value can't be recovered
// from the Action payload alone).
func (m *Manager) BroadcastAction(action *types.Action, cellDeposit uint64) {
	if action == nil || len(m.peers) == 0 {
		return
	}
	payload := struct {
		Action      *types.Action `json:"action"`
		CellDeposit uint64        `json:"cellDeposit"`
	}{Action: action, CellDeposit: cellDeposit}
	for _, peer := range m.peers {
		go m.transport.PostJSON(peer, "/p2p/action", payload)
	}
}
