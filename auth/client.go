// Package auth talks to the external identity service. Tokens are opaque
// here; every request is re-verified, nothing is cached.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var ErrInvalidToken = errors.New("token is invalid")

type Identity struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Verifier is the capability handlers depend on; tests substitute a fake.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

type Client struct {
	baseURL string
	client  *http.Client
}

const verifyTimeout = 10 * time.Second

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: verifyTimeout},
	}
}

func (c *Client) Verify(ctx context.Context, token string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/verify", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("token", token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidToken
	}

	var body struct {
		Data Identity `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("identity service sent malformed response: %w", err)
	}
	return &body.Data, nil
}
