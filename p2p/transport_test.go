package p2p

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPTransportPostsJSONBody(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	peer := NewPeer(srv.URL)
	transport := NewHTTPTransport()
	err := transport.PostJSON(peer, "/p2p/tx", map[string]any{"hello": "world"})
	require.NoError(t, err)
	require.Equal(t, "/p2p/tx", gotPath)
	require.Equal(t, "world", gotBody["hello"])
}

func TestHTTPTransportIgnoresNilPeer(t *testing.T) {
	transport := NewHTTPTransport()
	err := transport.PostJSON(nil, "/p2p/tx", map[string]any{})
	require.NoError(t, err)
}
