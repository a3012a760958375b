package httpclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ITyukz11/payops/pkg/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLedgerStub(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/transactions", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	return httptest.NewServer(mux)
}

func TestHTTPClient_Post(t *testing.T) {
	server := setupLedgerStub(t)
	defer server.Close()

	client := httpclient.NewHTTPClient(httpclient.Config{Timeout: 5 * time.Second})

	body, err := httpclient.EncodeJSON(map[string]any{"txn": "req-1", "amount": 500})
	require.NoError(t, err)

	resp, err := client.Post(context.Background(), server.URL+"/transactions", body,
		map[string]string{"Content-Type": "application/json"})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var echoed map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&echoed))
	assert.Equal(t, "req-1", echoed["txn"])
	assert.Equal(t, float64(500), echoed["amount"])
}

func TestHTTPClient_Do(t *testing.T) {
	server := setupLedgerStub(t)
	defer server.Close()

	client := httpclient.NewHTTPClient(httpclient.Config{Timeout: 5 * time.Second, MaxIdleConns: 4})

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, server.URL+"/transactions", nil)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPClient_Timeout(t *testing.T) {
	server := setupLedgerStub(t)
	defer server.Close()

	client := httpclient.NewHTTPClient(httpclient.Config{Timeout: 50 * time.Millisecond})

	_, err := client.Post(context.Background(), server.URL+"/slow", nil, nil)
	assert.Error(t, err)
}
