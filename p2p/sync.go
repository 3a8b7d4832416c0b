// SPDX-License-Identifier: MIT
// Dev: KryperAI

package p2p

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"kryprollup/types"
)

// SimpleSyncClient is a helper for pulling rollup state from a single
// peer — used by a freshly-started watcher node to catch up to the
// current GlobalState before it starts verifying new actions itself.
type SimpleSyncClient struct {
	baseURL string
	client  *http.Client
}

func NewSimpleSyncClient(peer *Peer) *SimpleSyncClient {
	if peer == nil {
		return nil
	}
	return &SimpleSyncClient{
		baseURL: peer.BaseURL,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// FetchGlobalState queries /state on the remote node.
func (c *SimpleSyncClient) FetchGlobalState() (types.GlobalState, error) {
	var state types.GlobalState

	resp, err := c.client.Get(c.baseURL + "/state")
	if err != nil {
		return state, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return state, fmt.Errorf("remote error: %s", string(body))
	}

	var wire struct {
		AccountRoot  string `json:"accountRoot"`
		BlockRoot    string `json:"blockRoot"`
		AccountCount uint64 `json:"accountCount"`
		BlockCount   uint64 `json:"blockCount"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return state, err
	}

	if state.AccountRoot, err = types.HashFromHex(wire.AccountRoot); err != nil {
		return state, err
	}
	if state.BlockRoot, err = types.HashFromHex(wire.BlockRoot); err != nil {
		return state, err
	}
	state.AccountCount = wire.AccountCount
	state.BlockCount = wire.BlockCount
	return state, nil
}
