// Package api is the REST client for the gateway admin API. One method per
// resource-action pair; a single attempt per call, no retries and no backoff.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// BasePath is the version prefix shared by every admin endpoint.
const BasePath = "/admin/api/v1"

const defaultTimeout = 30 * time.Second

// Error is returned for any non-2xx response. Message follows the fixed
// "Failed to <action> <resource>: <status>" form the UI relies on.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Client issues HTTP calls against the admin API. The base URL and token
// can be swapped at runtime when the credential file rotates.
type Client struct {
	mu      sync.RWMutex
	baseURL string
	token   string
	http    *http.Client
}

// New creates a client for the given base URL and bearer token. A non-nil
// transport replaces the default one; the demo/mock transport plugs in here.
func New(baseURL, token string, transport http.RoundTripper) *Client {
	httpClient := &http.Client{Timeout: defaultTimeout}
	if transport != nil {
		httpClient.Transport = transport
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
	}
}

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetCredentials replaces the base URL and bearer token used by subsequent
// requests. An empty field keeps the current value. In-flight requests
// finish with the credentials they started with.
func (c *Client) SetCredentials(baseURL, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if baseURL != "" {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
	if token != "" {
		c.token = token
	}
}

// call performs one request. action and resource feed the typed error
// message on a non-2xx status; network failures surface without a status.
func (c *Client) call(ctx context.Context, method, path string, q url.Values, body, out any, action, resource string) error {
	c.mu.RLock()
	baseURL, token := c.baseURL, c.token
	c.mu.RUnlock()

	u := baseURL + BasePath + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", resource, err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("Failed to %s %s: %d", action, resource, resp.StatusCode),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", resource, err)
	}
	return nil
}

// get is the read-path shorthand; every fetch uses the "fetch" action word.
func (c *Client) get(ctx context.Context, path string, q url.Values, out any, resource string) error {
	return c.call(ctx, http.MethodGet, path, q, nil, out, "fetch", resource)
}
