package core

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRequest(t *testing.T) {
	req := NewRequest(http.MethodGet, "/markets")

	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/markets", req.Path)
	assert.NotNil(t, req.Query)
	assert.NotNil(t, req.Headers)
	assert.Nil(t, req.Body)
	assert.False(t, req.RequireAuth)
}

func TestRequest_Setters(t *testing.T) {
	req := NewRequest(http.MethodPost, "/placeOrder").
		SetQuery("pair", "BTC-EUR").
		SetHeader("apiKey", "key").
		SetBody(Params{"side": "BUY"}).
		SetRequireAuth(true)

	assert.Equal(t, "BTC-EUR", req.Query["pair"])
	assert.Equal(t, "key", req.Headers["apiKey"])
	assert.Equal(t, "BUY", req.Body["side"])
	assert.True(t, req.RequireAuth)
}

func TestRequest_SetQueryParams(t *testing.T) {
	req := NewRequest(http.MethodGet, "/orderbook")
	req.SetQueryParams(Params{"pair": "BTC-EUR", "depth": "10"})

	assert.Equal(t, "BTC-EUR", req.Query["pair"])
	assert.Equal(t, "10", req.Query["depth"])
}

func TestRequest_NilMapsInitialized(t *testing.T) {
	req := &Request{Method: http.MethodGet, Path: "/markets"}

	req.SetQuery("pair", "BTC-EUR")
	req.SetHeader("hmac", "digest")

	assert.Equal(t, "BTC-EUR", req.Query["pair"])
	assert.Equal(t, "digest", req.Headers["hmac"])
}
