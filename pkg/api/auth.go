package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Login exchanges an identifier (email or username) and password for a fresh
// credential pair and the account's profile. It does not install the access
// token as the default credential; that decision belongs to the caller.
func (c *Client) Login(ctx context.Context, identifier, secret string) (Credentials, Profile, error) {
	body := map[string]string{
		"identifier": identifier,
		"password":   secret,
	}

	var raw map[string]json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &raw, ""); err != nil {
		return Credentials{}, Profile{}, err
	}

	creds, err := credentialsFrom(raw)
	if err != nil {
		return Credentials{}, Profile{}, err
	}

	var profile Profile
	if v, ok := raw["user"]; ok {
		if err := json.Unmarshal(v, &profile); err != nil {
			return Credentials{}, Profile{}, fmt.Errorf("decode login profile: %w", err)
		}
	}

	return creds, profile, nil
}

// Register creates a new account. It never issues or stores credentials;
// callers log in separately afterwards. Returns the server's confirmation
// message when one was sent.
func (c *Client) Register(ctx context.Context, details RegisterDetails) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/register", details, &resp, ""); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Me resolves the profile belonging to the given access credential. The
// credential is passed explicitly so bootstrap can probe a stored token
// before installing it as the default.
func (c *Client) Me(ctx context.Context, accessCredential string) (Profile, error) {
	var resp struct {
		User Profile `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &resp, accessCredential); err != nil {
		return Profile{}, err
	}
	return resp.User, nil
}

// Refresh trades a renewal credential for a brand-new credential pair. Both
// tokens are replaced; the old pair must be discarded by the caller.
func (c *Client) Refresh(ctx context.Context, renewalCredential string) (Credentials, error) {
	body := map[string]string{"refresh_token": renewalCredential}

	var raw map[string]json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", body, &raw, ""); err != nil {
		return Credentials{}, err
	}
	return credentialsFrom(raw)
}

// Logout asks the server to invalidate the current session. Best effort:
// callers are expected to clear local state whether or not this call
// succeeds.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, "")
}

// UpdateProfile patches the authenticated user's profile and returns the
// updated profile as the server sees it.
func (c *Client) UpdateProfile(ctx context.Context, patch ProfilePatch) (Profile, error) {
	var resp struct {
		User Profile `json:"user"`
	}
	if err := c.do(ctx, http.MethodPatch, "/users/me", patch, &resp, ""); err != nil {
		return Profile{}, err
	}
	return resp.User, nil
}

// ChangePassword replaces the account password. The current password is
// required for re-verification server-side.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	body := map[string]string{
		"current_password": current,
		"new_password":     next,
	}
	return c.do(ctx, http.MethodPut, "/users/me/password", body, nil, "")
}
