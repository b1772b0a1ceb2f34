package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client talks to the Shopify Admin REST API for one shop, authenticated
// with that shop's access token.
type Client struct {
	shopDomain  string
	accessToken string
	apiVersion  string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient creates a new Shopify REST client for the given shop
func NewClient(shopDomain, accessToken, apiVersion string, logger *zap.Logger) *Client {
	return &Client{
		shopDomain:  NormalizeShopDomain(shopDomain),
		accessToken: accessToken,
		apiVersion:  apiVersion,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// APIError is a non-2xx response from Shopify. Message holds the error text
// extracted from the response body when the body carried one.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("shopify API error: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("shopify API error: status %d, body: %s", e.StatusCode, e.Body)
}

// ErrorMessage returns Shopify's own error text from err when err wraps an
// APIError with one, otherwise the empty string.
func ErrorMessage(err error) string {
	for err != nil {
		if apiErr, ok := err.(*APIError); ok {
			return apiErr.Message
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := fmt.Sprintf("https://%s/admin/api/%s/%s", c.shopDomain, c.apiVersion, path)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    extractErrorMessage(respBody),
			Body:       string(respBody),
		}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(respBody))
		}
	}
	return nil
}

// extractErrorMessage pulls the error text out of a Shopify error body.
// Shopify is inconsistent here: "errors" may be a string, an object with a
// "message" key, or a field->messages map; "error" is a plain string.
func extractErrorMessage(body []byte) string {
	var envelope struct {
		Errors json.RawMessage `json:"errors"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if envelope.Error != "" {
		return envelope.Error
	}
	if len(envelope.Errors) == 0 {
		return ""
	}

	var asString string
	if err := json.Unmarshal(envelope.Errors, &asString); err == nil {
		return asString
	}
	var asObject map[string]interface{}
	if err := json.Unmarshal(envelope.Errors, &asObject); err == nil {
		if msg, ok := asObject["message"].(string); ok {
			return msg
		}
		parts := make([]string, 0, len(asObject))
		for field, v := range asObject {
			parts = append(parts, fmt.Sprintf("%s: %v", field, v))
		}
		return strings.Join(parts, "; ")
	}
	return ""
}

// NormalizeShopDomain strips the protocol and trailing slashes from a shop
// domain as entered by a merchant.
func NormalizeShopDomain(shopDomain string) string {
	d := strings.TrimSpace(shopDomain)
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	d = strings.TrimSuffix(d, "/")
	return d
}

// IsValidShopDomain reports whether a normalized domain looks like a
// myshopify.com shop domain.
func IsValidShopDomain(shopDomain string) bool {
	return strings.HasSuffix(shopDomain, ".myshopify.com") &&
		len(shopDomain) > len(".myshopify.com")
}
