package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenPair is the session issued by the backend's token endpoint.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// User is the authenticated account, backend-owned.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Login exchanges credentials for a token pair and installs it on the
// client.
func (c *Client) Login(ctx context.Context, username, password string) (TokenPair, error) {
	body := map[string]string{"username": username, "password": password}
	var pair TokenPair
	if err := c.do(ctx, http.MethodPost, "/token/", body, &pair); err != nil {
		return TokenPair{}, fmt.Errorf("login: %w", err)
	}
	c.SetTokens(pair)
	return pair, nil
}

// Register creates an account. The caller still logs in afterwards.
func (c *Client) Register(ctx context.Context, username, email, password string) (User, error) {
	body := map[string]string{
		"username":         username,
		"email":            email,
		"password":         password,
		"password_confirm": password,
	}
	var u User
	if err := c.do(ctx, http.MethodPost, "/users/register/", body, &u); err != nil {
		return User{}, fmt.Errorf("register: %w", err)
	}
	return u, nil
}

// Me returns the account for the current session.
func (c *Client) Me(ctx context.Context) (User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/users/me/", nil, &u); err != nil {
		return User{}, fmt.Errorf("fetch current user: %w", err)
	}
	return u, nil
}

// refreshSession trades the refresh token for a new access token. It
// builds the request by hand rather than through do, which would recurse
// into the expiry check. Concurrent callers serialize here; whoever
// arrives after a successful refresh sees a fresh token and returns.
func (c *Client) refreshSession(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	prev := c.Tokens()
	if prev.Refresh == "" || !tokenExpired(prev.Access) {
		return nil
	}

	buf, err := json.Marshal(map[string]string{"refresh": prev.Refresh})
	if err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/token/refresh/"), bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("refresh session: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("refresh session: %w", &Error{Status: resp.StatusCode, Detail: errorDetail(data)})
	}

	var pair TokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("refresh session: decode response: %w", err)
	}
	if pair.Refresh == "" {
		pair.Refresh = prev.Refresh
	}
	c.SetTokens(pair)
	return nil
}

// tokenExpired reports whether the access token's exp claim has passed (with
// a small skew margin). The claim is read without signature verification;
// the backend remains the authority, this only decides when to refresh
// pre-emptively.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Until(exp.Time) < 30*time.Second
}
