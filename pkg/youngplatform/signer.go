package youngplatform

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"ypclient/pkg/core"
)

// recvWindow is the validity window, in seconds, the exchange grants a
// signed request.
const recvWindow = 10

// Signer computes the authentication signature for private endpoints and
// attaches it to an outbound request.
type Signer struct {
	now func() time.Time
}

// NewSigner creates a Signer using the wall clock.
func NewSigner() *Signer {
	return &Signer{now: time.Now}
}

// Sign mutates req in place. It builds the signature payload from the fixed
// recvWindow/timestamp keys merged with the request body, computes
// HMAC-SHA512 over the canonical string with the secret key, sets the
// apiKey, hmac and content-Type headers, and replaces the outgoing body with
// the signature payload itself. A request without a body signs just the two
// fixed keys.
//
// Body keys merge after the fixed keys, so a body defining recvWindow or
// timestamp overrides them. The wire protocol behaves this way; callers must
// not use those keys.
func (s *Signer) Sign(req *core.Request, creds core.Credentials) error {
	if creds.SecretKey == "" {
		return fmt.Errorf("secret key is required for signing")
	}

	payload := core.Params{
		"recvWindow": recvWindow,
		"timestamp":  s.now().Unix(),
	}
	for k, v := range req.Body {
		payload[k] = v
	}

	digest := hmacSHA512(canonicalString(payload), creds.SecretKey)

	req.SetHeader("apiKey", creds.APIKey)
	req.SetHeader("hmac", digest)
	req.SetHeader("content-Type", "application/json")
	req.SetBody(payload)

	return nil
}

// canonicalString serializes the payload as key=value pairs joined by '&',
// keys in ascending lexicographic order, values in their natural text form.
// No URL encoding, no trailing separator.
func canonicalString(payload core.Params) string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(stringify(payload[k]))
	}
	return b.String()
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func hmacSHA512(message, secret string) string {
	h := hmac.New(sha512.New, []byte(secret))
	h.Write([]byte(message))
	return hex.EncodeToString(h.Sum(nil))
}
