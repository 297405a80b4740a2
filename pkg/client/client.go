// Package client is a Go client for the teamchat API together with the
// client-side flows built on it: feeds, composer, channel form and modal state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const apiPrefix = "/api/v1"

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	StatusCode int         `json:"-"`
	Code       string      `json:"code"`
	Domain     string      `json:"domain"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("teamchat: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("teamchat: HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Client talks to one teamchat server.
type Client struct {
	baseURL string
	http    *http.Client

	mu      sync.RWMutex
	token   string
	refresh string
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sets the access token sent as a bearer credential.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// setSession stores both halves of a token pair.
func (c *Client) setSession(s *Session) {
	c.mu.Lock()
	c.token = s.AccessToken
	c.refresh = s.RefreshToken
	c.mu.Unlock()
}

func (c *Client) refreshToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refresh
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// BaseURL returns the server root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// resolve turns an API path or an absolute URL into a full URL.
func (c *Client) resolve(pathOrURL string) string {
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL
	}
	if strings.HasPrefix(pathOrURL, apiPrefix) {
		return c.baseURL + pathOrURL
	}
	return c.baseURL + apiPrefix + pathOrURL
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, contentType, reader, true, out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, authenticate bool, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); authenticate && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var envelope struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error != nil {
		envelope.Error.StatusCode = resp.StatusCode
		return envelope.Error
	}

	apiErr.Message = strings.TrimSpace(string(data))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
