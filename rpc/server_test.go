package rpc

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"kryprollup/aggregator"
	"kryprollup/node"
	"kryprollup/secp256k1"
	"kryprollup/types"
	"kryprollup/verifier"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	priv, err := crypto.GenerateKey()
	require.NoError(t, err)
	pkh := secp256k1.PubkeyHashOf(priv)

	mirror := aggregator.NewMirror(0)
	_, _, err = aggregator.Bootstrap(mirror, pkh, 1000)
	require.NoError(t, err)

	ctx := &verifier.Context{}
	initial := types.GlobalState{AccountRoot: mirror.Accounts().Root(), AccountCount: 1}
	n := node.NewNode(mirror, ctx, priv, initial, nil)
	return NewServer(n)
}

func doRequest(s *Server, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleHealthRejectsPost(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(s, http.MethodPost, "/health", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleGlobalState(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(s, http.MethodGet, "/state", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.EqualValues(t, 1, body["accountCount"])
}

func TestHandleAccountFound(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(s, http.MethodGet, "/account?index=0", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.EqualValues(t, 1000, body["balance"])
}

func TestHandleAccountNotFound(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(s, http.MethodGet, "/account?index=9", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleAccountRejectsMissingIndex(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(s, http.MethodGet, "/account", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleBlockNotFound(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(s, http.MethodGet, "/block?number=0", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleSendTxQueuesTx(t *testing.T) {
	s := newTestServer(t)
	body, err := json.Marshal(&types.Tx{SenderIndex: 0, ToIndex: 1, Nonce: 1})
	require.NoError(t, err)

	rec := doRequest(s, http.MethodPost, "/tx/send", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "queued", resp["status"])
}

func TestHandleSendTxRejectsBadJSON(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(s, http.MethodPost, "/tx/send", []byte("{not json"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleP2PActionAppliesRegister(t *testing.T) {
	s := newTestServer(t)
	account := types.NewAccount(1, types.PubkeyHash{0x22})
	action := &types.Action{Kind: types.ActionRegister, Register: &types.RegisterAction{Account: account}}
	payload, err := json.Marshal(map[string]any{"action": action, "cellDeposit": 1000})
	require.NoError(t, err)

	rec := doRequest(s, http.MethodPost, "/p2p/action", payload)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleP2PActionRejectsMissingAction(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(s, http.MethodPost, "/p2p/action", []byte(`{}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
