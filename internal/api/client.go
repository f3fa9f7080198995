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

// Client talks to the platform admin API. It attaches the bearer token to
// every request and fires the unauthorized hook on any 401, which the auth
// layer uses to force a global logout.
type Client struct {
	baseURL string
	http    *http.Client

	mu             sync.RWMutex
	token          string
	onUnauthorized func()
}

// NewClient creates a client for the given API base URL, e.g.
// "https://platform.example.com/api".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken installs the bearer token used for subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken drops the bearer token.
func (c *Client) ClearToken() { c.SetToken("") }

// OnUnauthorized registers the hook invoked whenever any call returns 401.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// HubURL derives the order hub WebSocket endpoint from the API base URL, the
// same way the dashboard derives it: strip the /api suffix, append the hub
// path, and switch to the ws scheme.
func (c *Client) HubURL() string {
	base := strings.TrimSuffix(c.baseURL, "/api")
	base = strings.Replace(base, "https://", "wss://", 1)
	base = strings.Replace(base, "http://", "ws://", 1)
	return base + "/hubs/orders"
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) (int, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	c.mu.RLock()
	token := c.token
	hook := c.onUnauthorized
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if hook != nil {
			hook()
		}
		return resp.StatusCode, &AuthError{Message: "session expired", StatusCode: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// get performs a read; failures are wrapped as FetchError except 401, which
// keeps its AuthError identity.
func (c *Client) get(ctx context.Context, resource, path string, query url.Values, out interface{}) error {
	status, err := c.do(ctx, http.MethodGet, path, query, nil, out)
	if err == nil {
		return nil
	}
	if _, ok := err.(*AuthError); ok {
		return err
	}
	return &FetchError{Resource: resource, StatusCode: failStatus(status), Err: err}
}

// write performs a mutation; failures are wrapped as MutationError except
// 401.
func (c *Client) write(ctx context.Context, op, method, path string, body, out interface{}) error {
	status, err := c.do(ctx, method, path, nil, body, out)
	if err == nil {
		return nil
	}
	if _, ok := err.(*AuthError); ok {
		return err
	}
	return &MutationError{Op: op, StatusCode: failStatus(status), Err: err}
}

// failStatus zeroes out success codes so decode errors are not reported as
// HTTP failures.
func failStatus(status int) int {
	if status >= 200 && status < 300 {
		return 0
	}
	return status
}
