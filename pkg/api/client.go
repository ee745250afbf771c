package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
)

// Client talks to the platform API. It is safe for concurrent use; the only
// mutable state is the default auth token, guarded by a mutex.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client

	mu        sync.RWMutex
	authToken string
}

// Option is a functional option for configuring the Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client. Nil clients are ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates an API client from the given configuration.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// SetAuthToken installs token as the default bearer credential applied to
// every subsequent request. An empty token clears the header.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	c.authToken = token
	c.mu.Unlock()
}

// ClearAuthToken removes the default bearer credential.
func (c *Client) ClearAuthToken() {
	c.SetAuthToken("")
}

// AuthToken returns the currently installed default credential.
func (c *Client) AuthToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authToken
}

// do performs a JSON request against path. When overrideToken is non-empty
// it is used instead of the default credential for this single call. A non-nil
// out receives the decoded 2xx body.
func (c *Client) do(ctx context.Context, method, path string, body, out any, overrideToken string) error {
	var payload *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(raw)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token := overrideToken
	if token == "" {
		token = c.AuthToken()
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// decodeError folds a non-2xx response into *APIError, tolerating both
// {"error": …} and {"message": …} payload shapes.
func decodeError(resp *http.Response) error {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)

	msg := body.Error
	if msg == "" {
		msg = body.Message
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

// firstString picks the first non-empty string among the named fields of a
// raw JSON object. Used to tolerate credential field-name drift between API
// deployments.
func firstString(raw map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}

// credentialsFrom normalizes the token fields of a raw response object into
// Credentials, regardless of which naming variant the server used.
func credentialsFrom(raw map[string]json.RawMessage) (Credentials, error) {
	creds := Credentials{
		Access:  firstString(raw, "access_token", "accessToken", "token"),
		Renewal: firstString(raw, "refresh_token", "refreshToken", "renewal_token"),
	}
	if creds.Access == "" || creds.Renewal == "" {
		return Credentials{}, ErrMissingCredentials
	}
	return creds, nil
}
