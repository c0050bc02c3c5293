package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrUnauthorized marks responses that require a (re)login.
var ErrUnauthorized = errors.New("unauthorized")

// Error is a backend failure with its HTTP status and decoded detail.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
}

func (e *Error) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// Client talks to the task backend. It owns the session tokens and
// refreshes the access token before it expires. Safe for concurrent use;
// batch persistence issues many requests at once.
type Client struct {
	base  *url.URL
	httpc *http.Client
	log   *slog.Logger

	mu     sync.Mutex // guards tokens
	tokens TokenPair

	refreshMu sync.Mutex // serializes refreshSession
}

// New builds a client for the given base URL, for example
// "https://tasks.example.com/api/v1".
func New(baseURL string, log *slog.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q: scheme and host required", baseURL)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		base:  u,
		httpc: &http.Client{Timeout: 30 * time.Second},
		log:   log,
	}, nil
}

// SetTokens installs a session obtained from Login or loaded from disk.
func (c *Client) SetTokens(t TokenPair) {
	c.mu.Lock()
	c.tokens = t
	c.mu.Unlock()
}

// Tokens returns the current session, including any refreshed access token.
func (c *Client) Tokens() TokenPair {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens
}

func (c *Client) endpoint(path string) string {
	return c.base.String() + path
}

// do performs one JSON request. body and out may be nil. Non-2xx responses
// decode into *Error.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if s := c.Tokens(); s.Access != "" && s.Refresh != "" && tokenExpired(s.Access) {
		if err := c.refreshSession(ctx); err != nil {
			c.log.Warn("token refresh failed", "err", err)
		}
	}

	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), rd)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s := c.Tokens(); s.Access != "" {
		req.Header.Set("Authorization", "Bearer "+s.Access)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode, Detail: errorDetail(data)}
		c.log.Debug("request failed", "method", method, "path", path, "status", resp.StatusCode)
		return apiErr
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}

// errorDetail extracts a human-readable message from a backend error body.
func errorDetail(data []byte) string {
	var body struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	switch {
	case body.Detail != "":
		return body.Detail
	case body.Message != "":
		return body.Message
	default:
		return body.Error
	}
}

// decodeList accepts both a paginated envelope {count, next, results} and a
// bare JSON array, so pagination stays transparent to callers.
func decodeList[T any](data []byte) ([]T, error) {
	var envelope struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Results != nil {
		return envelope.Results, nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// getList fetches path and unwraps the list payload.
func getList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	items, err := decodeList[T](raw)
	if err != nil {
		return nil, fmt.Errorf("GET %s: decode list: %w", path, err)
	}
	return items, nil
}
