// Package api is a thin HTTP client for the accountd server, used by the
// CLI. It keeps the issued token pair in memory for the lifetime of the
// process.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrDeclined is returned when the server answered with a business "no":
// duplicate signup, invalid credentials, nothing to change.
var ErrDeclined = errors.New("declined")

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  *TokenPair
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// LoggedIn reports whether a token pair is held.
func (c *Client) LoggedIn() bool { return c.tokens != nil }

func (c *Client) post(ctx context.Context, path string, body any, authenticated bool, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if authenticated {
		if c.tokens == nil {
			return errors.New("not logged in")
		}
		req.Header.Set("Authorization", "Bearer "+c.tokens.AccessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out != nil {
			return json.NewDecoder(resp.Body).Decode(out)
		}
		return nil
	case resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnauthorized:
		return ErrDeclined
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("server error: %s", string(bytes.TrimSpace(msg)))
	}
}

func (c *Client) Signup(ctx context.Context, email, password, name string) error {
	body := map[string]string{"email": email, "password": password, "name": name}
	return c.post(ctx, "/api/signup", body, false, nil)
}

func (c *Client) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	pair := &TokenPair{}
	if err := c.post(ctx, "/api/login", body, false, pair); err != nil {
		return err
	}
	c.tokens = pair
	return nil
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.post(ctx, "/api/logout", struct{}{}, true, nil); err != nil {
		return err
	}
	c.tokens = nil
	return nil
}

// Refresh exchanges the held refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context) error {
	if c.tokens == nil {
		return errors.New("not logged in")
	}
	body := map[string]string{"refresh_token": c.tokens.RefreshToken}
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.post(ctx, "/api/refresh", body, false, &out); err != nil {
		return err
	}
	c.tokens.AccessToken = out.AccessToken
	return nil
}

func (c *Client) Me(ctx context.Context, email string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/me?email="+url.QueryEscape(email), nil)
	if err != nil {
		return nil, err
	}
	if c.tokens == nil {
		return nil, errors.New("not logged in")
	}
	req.Header.Set("Authorization", "Bearer "+c.tokens.AccessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("server error: %s", string(bytes.TrimSpace(msg)))
	}

	profile := &Profile{}
	if err := json.NewDecoder(resp.Body).Decode(profile); err != nil {
		return nil, err
	}
	return profile, nil
}
