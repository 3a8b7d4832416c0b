// SPDX-License-Identifier: MIT
// Dev: KryperAI

// Package rpc is the node's HTTP surface, adapted from the teacher's
// Server/routes/handle* layout (rpc/server.go): health, chain/account
// reads, and a tx-submission endpoint that feeds the aggregator's queue
// instead of a single-chain mempool.
package rpc

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"kryprollup/node"
	"kryprollup/types"
)

type Server struct {
	node *node.Node
	mux  *http.ServeMux
}

func NewServer(n *node.Node) *Server {
	s := &Server{node: n, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/state", s.handleGlobalState)
	s.mux.HandleFunc("/account", s.handleAccount)
	s.mux.HandleFunc("/block", s.handleBlock)
	s.mux.HandleFunc("/tx/send", s.handleSendTx)

	// P2P ingress endpoints (used by other nodes)
	s.mux.HandleFunc("/p2p/tx", s.handleP2PTx)
	s.mux.HandleFunc("/p2p/action", s.handleP2PAction)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleGlobalState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	st := s.node.State
	writeJSON(w, http.StatusOK, map[string]any{
		"accountRoot":  st.AccountRoot.String(),
		"blockRoot":    st.BlockRoot.String(),
		"accountCount": st.AccountCount,
		"blockCount":   st.BlockCount,
	})
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	idxStr := r.URL.Query().Get("index")
	idx, err := strconv.ParseUint(strings.TrimSpace(idxStr), 10, 64)
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid or missing index")
		return
	}

	account := s.node.Mirror.Accounts().GetAccount(idx)
	if account == nil {
		httpError(w, http.StatusNotFound, "account not found")
		return
	}
	bal := s.node.Mirror.Accounts().GetBalance(idx, types.NativeTokenID)

	writeJSON(w, http.StatusOK, map[string]any{
		"index":      account.Index,
		"pubkeyHash": account.PubkeyHash.String(),
		"nonce":      account.Nonce,
		"balance":    bal,
	})
}

// handleBlock exposes an already-submitted block plus its own txs, the
// raw material a challenger needs to decide whether to dispute it —
// re-execution happens client-side (cmd/challenger replays the txs
// through executor.Execute), never on the node itself.
func (s *Server) handleBlock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	numStr := r.URL.Query().Get("number")
	num, err := strconv.ParseUint(strings.TrimSpace(numStr), 10, 64)
	if err != nil {
		httpError(w, http.StatusBadRequest, "invalid or missing number")
		return
	}

	block := s.node.Mirror.Chain().GetBlock(num)
	if block == nil {
		httpError(w, http.StatusNotFound, "block not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"block": block,
		"txs":   s.node.Mirror.Chain().GetTxs(num),
	})
}

func (s *Server) handleSendTx(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		httpError(w, http.StatusBadRequest, "cannot read body")
		return
	}
	defer r.Body.Close()

	var tx types.Tx
	if err := json.Unmarshal(body, &tx); err != nil {
		httpError(w, http.StatusBadRequest, "invalid tx json")
		return
	}

	s.node.Mirror.PushTx(&tx)

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "queued",
		"hash":   tx.Hash().String(),
	})
}

func (s *Server) handleP2PTx(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var tx types.Tx
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		httpError(w, http.StatusBadRequest, "invalid tx json")
		return
	}
	defer r.Body.Close()

	s.node.Mirror.PushTx(&tx)
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// handleP2PAction ingests a landed Action broadcast by the aggregator
// that produced it, folding it into this node's own mirror so a
// watcher tracks the rollup without ever submitting anything itself.
// CellDeposit carries the base-chain capacity delta Register/Deposit
// need but don't themselves encode (see node.Node.ApplyRemoteAction).
func (s *Server) handleP2PAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var payload struct {
		Action      *types.Action `json:"action"`
		CellDeposit uint64        `json:"cellDeposit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpError(w, http.StatusBadRequest, "invalid action json")
		return
	}
	defer r.Body.Close()

	if payload.Action == nil {
		httpError(w, http.StatusBadRequest, "missing action")
		return
	}
	if err := s.node.ApplyRemoteAction(payload.Action, payload.CellDeposit); err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		log.Printf("rpc: write json error: %v\n", err)
	}
}

func httpError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}
