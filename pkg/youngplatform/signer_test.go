package youngplatform

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ypclient/pkg/core"
)

func fixedSigner(ts int64) *Signer {
	return &Signer{now: func() time.Time { return time.Unix(ts, 0) }}
}

func referenceDigest(message, secret string) string {
	h := hmac.New(sha512.New, []byte(secret))
	h.Write([]byte(message))
	return hex.EncodeToString(h.Sum(nil))
}

func TestSign_NoBody(t *testing.T) {
	s := fixedSigner(1700000000)
	req := core.NewRequest(http.MethodPost, "/balances")

	err := s.Sign(req, core.Credentials{APIKey: "key", SecretKey: "secret"})
	require.NoError(t, err)

	expected := referenceDigest("recvWindow=10&timestamp=1700000000", "secret")
	assert.Equal(t, expected, req.Headers["hmac"])
	assert.Equal(t, "key", req.Headers["apiKey"])
	assert.Equal(t, "application/json", req.Headers["content-Type"])
}

func TestSign_LimitOrderBody(t *testing.T) {
	s := fixedSigner(1700000000)
	req := core.NewRequest(http.MethodPost, "/placeOrder")
	req.SetBody(core.Params{
		"trade":  "BTC",
		"market": "EUR",
		"side":   "BUY",
		"type":   "LIMIT",
		"volume": json.Number("1.5"),
		"rate":   json.Number("20000"),
	})

	err := s.Sign(req, core.Credentials{APIKey: "key", SecretKey: "secret"})
	require.NoError(t, err)

	canonical := "market=EUR&rate=20000&recvWindow=10&side=BUY&timestamp=1700000000&trade=BTC&type=LIMIT&volume=1.5"
	assert.Equal(t, referenceDigest(canonical, "secret"), req.Headers["hmac"])
}

func TestSign_ReplacesBodyWithSignaturePayload(t *testing.T) {
	s := fixedSigner(1700000000)
	req := core.NewRequest(http.MethodPost, "/cancelOrder")
	req.SetBody(core.Params{"side": "BUY", "orderId": int64(42)})

	err := s.Sign(req, core.Credentials{APIKey: "key", SecretKey: "secret"})
	require.NoError(t, err)

	assert.Equal(t, recvWindow, req.Body["recvWindow"])
	assert.Equal(t, int64(1700000000), req.Body["timestamp"])
	assert.Equal(t, "BUY", req.Body["side"])
	assert.Equal(t, int64(42), req.Body["orderId"])
}

func TestSign_BodyOverridesFixedKeys(t *testing.T) {
	// The wire protocol merges body fields after the fixed keys, so a body
	// that defines timestamp or recvWindow wins. Behavior is preserved
	// deliberately.
	s := fixedSigner(1700000000)
	req := core.NewRequest(http.MethodPost, "/placeOrder")
	req.SetBody(core.Params{"timestamp": int64(42)})

	err := s.Sign(req, core.Credentials{APIKey: "key", SecretKey: "secret"})
	require.NoError(t, err)

	assert.Equal(t, referenceDigest("recvWindow=10&timestamp=42", "secret"), req.Headers["hmac"])
	assert.Equal(t, int64(42), req.Body["timestamp"])
}

func TestSign_Deterministic(t *testing.T) {
	body := core.Params{"trade": "BTC", "market": "EUR", "volume": json.Number("0.25")}

	first := core.NewRequest(http.MethodPost, "/placeOrder").SetBody(body)
	second := core.NewRequest(http.MethodPost, "/placeOrder").SetBody(body)

	require.NoError(t, fixedSigner(1700000000).Sign(first, core.Credentials{APIKey: "k", SecretKey: "s"}))
	require.NoError(t, fixedSigner(1700000000).Sign(second, core.Credentials{APIKey: "k", SecretKey: "s"}))

	assert.Equal(t, first.Headers["hmac"], second.Headers["hmac"])
}

func TestSign_Avalanche(t *testing.T) {
	base := func() *core.Request {
		return core.NewRequest(http.MethodPost, "/placeOrder").
			SetBody(core.Params{"trade": "BTC", "volume": json.Number("1.5")})
	}

	reference := base()
	require.NoError(t, fixedSigner(1700000000).Sign(reference, core.Credentials{APIKey: "k", SecretKey: "secret"}))

	otherSecret := base()
	require.NoError(t, fixedSigner(1700000000).Sign(otherSecret, core.Credentials{APIKey: "k", SecretKey: "secreT"}))
	assert.NotEqual(t, reference.Headers["hmac"], otherSecret.Headers["hmac"])

	otherBody := core.NewRequest(http.MethodPost, "/placeOrder").
		SetBody(core.Params{"trade": "BTC", "volume": json.Number("1.6")})
	require.NoError(t, fixedSigner(1700000000).Sign(otherBody, core.Credentials{APIKey: "k", SecretKey: "secret"}))
	assert.NotEqual(t, reference.Headers["hmac"], otherBody.Headers["hmac"])
}

func TestSign_MissingSecret(t *testing.T) {
	req := core.NewRequest(http.MethodPost, "/balances")
	err := NewSigner().Sign(req, core.Credentials{APIKey: "key"})
	require.Error(t, err)
}

func TestCanonicalString_KeysSorted(t *testing.T) {
	payloads := []core.Params{
		{"b": "2", "a": "1", "c": "3"},
		{"zeta": "z", "alpha": "a", "mid": "m", "recvWindow": 10, "timestamp": int64(1)},
		{"volume": json.Number("1.5"), "market": "EUR", "trade": "BTC", "side": "SELL"},
	}

	for _, payload := range payloads {
		canonical := canonicalString(payload)
		assert.False(t, strings.HasSuffix(canonical, "&"))

		var keys []string
		for _, pair := range strings.Split(canonical, "&") {
			key, _, found := strings.Cut(pair, "=")
			require.True(t, found)
			keys = append(keys, key)
		}
		assert.True(t, slices.IsSorted(keys), "keys not sorted: %v", keys)
		assert.Len(t, keys, len(payload))
	}
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "BTC", stringify("BTC"))
	assert.Equal(t, "1.5", stringify(json.Number("1.5")))
	assert.Equal(t, "10", stringify(10))
	assert.Equal(t, "42", stringify(int64(42)))
	assert.Equal(t, "20000", stringify(float64(20000)))
	assert.Equal(t, "1.5", stringify(1.5))
	assert.Equal(t, "true", stringify(true))
}

func TestSign_DigestIsLowercaseHex(t *testing.T) {
	req := core.NewRequest(http.MethodPost, "/balances")
	require.NoError(t, NewSigner().Sign(req, core.Credentials{APIKey: "k", SecretKey: "s"}))

	digest := req.Headers["hmac"]
	assert.Len(t, digest, 128)
	assert.Equal(t, strings.ToLower(digest), digest)
	_, err := hex.DecodeString(digest)
	assert.NoError(t, err)
}
