package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

// signQuery reproduces Shopify's signing: sorted key=value pairs joined
// with &, HMAC-SHA256 over the result. The keys here are already sorted.
func signQuery(query url.Values, secret string) string {
	message := ""
	for _, key := range []string{"code", "shop", "state", "timestamp"} {
		if query.Get(key) == "" {
			continue
		}
		if message != "" {
			message += "&"
		}
		message += key + "=" + query.Get(key)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyHMAC(t *testing.T) {
	query := url.Values{
		"code":      {"authcode"},
		"shop":      {"test.myshopify.com"},
		"state":     {"nonce123"},
		"timestamp": {"1700000000"},
	}
	query.Set("hmac", signQuery(query, "secret"))

	assert.True(t, VerifyHMAC(query, "secret"))
	assert.False(t, VerifyHMAC(query, "wrong-secret"))
}

func TestVerifyHMACRejectsTamperedQuery(t *testing.T) {
	query := url.Values{
		"code":      {"authcode"},
		"shop":      {"test.myshopify.com"},
		"state":     {"nonce123"},
		"timestamp": {"1700000000"},
	}
	query.Set("hmac", signQuery(query, "secret"))
	query.Set("shop", "evil.myshopify.com")

	assert.False(t, VerifyHMAC(query, "secret"))
}

func TestVerifyHMACMissingParameter(t *testing.T) {
	assert.False(t, VerifyHMAC(url.Values{"shop": {"test.myshopify.com"}}, "secret"))
}

func TestAuthorizeURL(t *testing.T) {
	u := AuthorizeURL("test.myshopify.com", "key123", "read_orders,write_orders", "https://app.example.com/auth/callback", "nonce")

	parsed, err := url.Parse(u)
	assert.NoError(t, err)
	assert.Equal(t, "test.myshopify.com", parsed.Host)
	assert.Equal(t, "/admin/oauth/authorize", parsed.Path)

	q := parsed.Query()
	assert.Equal(t, "key123", q.Get("client_id"))
	assert.Equal(t, "read_orders,write_orders", q.Get("scope"))
	assert.Equal(t, "https://app.example.com/auth/callback", q.Get("redirect_uri"))
	assert.Equal(t, "nonce", q.Get("state"))
}
