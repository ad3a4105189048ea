package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ypclient/pkg/core"
)

func testConfig(baseURL string) *Config {
	return &Config{
		BaseURL:      baseURL,
		Timeout:      5 * time.Second,
		MaxRetries:   0,
		RetryWaitMin: 100 * time.Millisecond,
		RetryWaitMax: time.Second,
	}
}

func TestNewClient_InvalidConfig(t *testing.T) {
	_, err := NewClient(&Config{BaseURL: ""}, zerolog.Nop())
	require.Error(t, err)

	_, err = NewClient(&Config{BaseURL: "not a url", Timeout: time.Second}, zerolog.Nop())
	require.Error(t, err)
}

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/markets", r.URL.Path)
		assert.Equal(t, "BTC-EUR", r.URL.Query().Get("pair"))
		assert.Equal(t, "5", r.URL.Query().Get("depth"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL), zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()

	resp, err := client.Get(context.Background(), "/markets",
		WithQueryParam("pair", "BTC-EUR"),
		WithQueryParams(map[string]string{"depth": "5"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.JSONEq(t, `{"ok":true}`, string(resp.Bytes()))
}

func TestClient_Post_JSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"side":"BUY"}`, string(body))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL), zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()

	resp, err := client.Post(context.Background(), "/placeOrder", map[string]string{"side": "BUY"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

func TestClient_GetWithBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"recvWindow":10}`, string(body))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL), zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Get(context.Background(), "/balances", WithBody(map[string]int{"recvWindow": 10}))
	require.NoError(t, err)
}

func TestClient_DefaultHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "extra", r.Header.Get("X-Extra"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	config := testConfig(server.URL)
	config.Headers = map[string]string{"User-Agent": "test-agent"}

	client, err := NewClient(config, zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Get(context.Background(), "/", WithHeader("X-Extra", "extra"))
	require.NoError(t, err)
}

func TestClient_Closed(t *testing.T) {
	client, err := NewClient(testConfig("http://localhost:1"), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	_, err = client.Get(context.Background(), "/markets")
	require.ErrorIs(t, err, core.ErrClientClosed)

	_, err = client.Post(context.Background(), "/placeOrder", nil)
	require.ErrorIs(t, err, core.ErrClientClosed)

	_, err = client.Delete(context.Background(), "/order")
	require.ErrorIs(t, err, core.ErrClientClosed)
}
