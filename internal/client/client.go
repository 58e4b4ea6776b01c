// Package client is a thin wrapper over the backend REST API: it adds the
// base URL and headers and decodes the {success, data, message} envelope the
// backend wraps every resource in.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	apiRoot    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client, used by tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func New(apiRoot string, opts ...Option) (*Client, error) {
	u, err := url.Parse(apiRoot)
	if err != nil || !u.IsAbs() {
		return nil, fmt.Errorf("apiRoot is not an absolute URL: %s", apiRoot)
	}

	c := &Client{
		apiRoot:    strings.TrimSuffix(apiRoot, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// envelope is the backend's response convention for every endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// do sends one request and decodes the enveloped payload into T.
// accessToken may be empty for public resources.
func do[T any](ctx context.Context, c *Client, method, path, accessToken string, body any) (T, error) {
	var zero T

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("json.Marshal: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiRoot+path, reqBody)
	if err != nil {
		return zero, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zero, &TransportError{Cause: err}
	}
	defer resp.Body.Close()

	// proxies and load balancers answer error statuses with HTML, so the
	// envelope is decoded best-effort and the status code stays authoritative
	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return zero, &AuthError{StatusCode: resp.StatusCode, Message: env.Message}
	case resp.StatusCode >= 400:
		return zero, &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	case decodeErr != nil:
		return zero, fmt.Errorf("decode envelope (status %d): %w", resp.StatusCode, decodeErr)
	case !env.Success:
		return zero, &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	var out T
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &out); err != nil {
			return zero, fmt.Errorf("json.Unmarshal data: %w", err)
		}
	}

	return out, nil
}
