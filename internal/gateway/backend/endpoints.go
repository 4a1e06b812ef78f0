package backend

import (
	"context"

	"github.com/aussiebroadwan/jdmatchr/internal/gateway/domain"
)

// Login posts {email, password} to the credential-check endpoint.
func (c *Client) Login(ctx context.Context, email, password string) (*Response, error) {
	return c.postJSON(ctx, "login", PathLogin, map[string]string{
		"email":    email,
		"password": password,
	})
}

// Register posts {name, email, password} to the registration endpoint.
func (c *Client) Register(ctx context.Context, name, email, password string) (*Response, error) {
	return c.postJSON(ctx, "register", PathRegister, map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
}

// EnsureOAuth asks the backend to find or create the local user for p.
func (c *Client) EnsureOAuth(ctx context.Context, p domain.OAuthProfile) (*Response, error) {
	return c.postJSON(ctx, "ensure_oauth", PathEnsureOAuth, p)
}

// Ping reports whether the backend answers HTTP at all. Any status counts.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Do(ctx, Request{
		Endpoint: "ping",
		Method:   "HEAD",
		Path:     "/",
	})
	return err
}
