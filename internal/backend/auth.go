package backend

import (
	"context"

	"github.com/vkuzn/tubedesk/internal/model"
)

// Credentials is the auth endpoint's success payload: a bearer token plus
// the full user profile. Both are set together or not at all.
type Credentials struct {
	Token string            `json:"token"`
	User  model.UserProfile `json:"user"`
}

// Login exchanges a username and password for credentials.
func (c *Client) Login(ctx context.Context, username, password string) (Credentials, error) {
	var creds Credentials
	err := c.postJSON(ctx, c.authURL, map[string]any{
		"action":   "login",
		"username": username,
		"password": password,
	}, &creds)
	return creds, err
}

// Register creates an account and signs it in, same contract as Login.
func (c *Client) Register(ctx context.Context, username, email, password, displayName string) (Credentials, error) {
	var creds Credentials
	err := c.postJSON(ctx, c.authURL, map[string]any{
		"action":       "register",
		"username":     username,
		"email":        email,
		"password":     password,
		"display_name": displayName,
	}, &creds)
	return creds, err
}
