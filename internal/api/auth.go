package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// LoginResult is the outcome of a password login. Either AccessToken is
// set, or Requires2FA is true and TempToken identifies the pending login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Requires2FA bool   `json:"requires_2fa"`
	TempToken   string `json:"temp_token"`
	Message     string `json:"message"`
	ExpiresIn   int    `json:"expires_in"`
}

// CodeExpiry returns when the emailed code stops being valid.
func (r *LoginResult) CodeExpiry(now time.Time) time.Time {
	if r.ExpiresIn <= 0 {
		return time.Time{}
	}
	return now.Add(time.Duration(r.ExpiresIn) * time.Second)
}

// Registration is a new account request.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyRequest confirms an emailed 2FA code.
type VerifyRequest struct {
	Email     string `json:"email"`
	Code      string `json:"code"`
	TempToken string `json:"temp_token,omitempty"`
}

// TokenResponse carries a bearer token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Message     string `json:"message"`
}

// CodeSent is returned when a new 2FA code was emailed.
type CodeSent struct {
	TempToken string `json:"temp_token"`
	Message   string `json:"message"`
	ExpiresIn int    `json:"expires_in"`
}

// Ack is the generic acknowledgement most mutating endpoints return.
type Ack struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Login exchanges credentials for a token. The server expects the email in
// the OAuth2 "username" form field.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var out LoginResult
	if err := c.doJSON(ctx, request{method: http.MethodPost, path: "/token", form: form}, &out); err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	if out.AccessToken == "" && !out.Requires2FA {
		return nil, fmt.Errorf("failed to log in: response carried no token")
	}
	return &out, nil
}

// VerifyCode completes a 2FA login.
func (c *Client) VerifyCode(ctx context.Context, req VerifyRequest) (*TokenResponse, error) {
	var out TokenResponse
	if err := c.doJSON(ctx, request{method: http.MethodPost, path: "/auth/verify-code", json: req}, &out); err != nil {
		return nil, fmt.Errorf("failed to verify code: %w", err)
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("failed to verify code: response carried no token")
	}
	return &out, nil
}

// SendCode emails a fresh login code.
func (c *Client) SendCode(ctx context.Context, email string) (*CodeSent, error) {
	form := url.Values{}
	form.Set("email", email)

	var out CodeSent
	if err := c.doJSON(ctx, request{method: http.MethodPost, path: "/auth/send-code", form: form}, &out); err != nil {
		return nil, fmt.Errorf("failed to send code: %w", err)
	}
	return &out, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, reg Registration) (*User, error) {
	var out User
	if err := c.doJSON(ctx, request{method: http.MethodPost, path: "/users/", json: reg}, &out); err != nil {
		return nil, fmt.Errorf("failed to register: %w", err)
	}
	return &out, nil
}

// Me returns the logged-in user's profile.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: "/me", auth: true}, &out); err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &out, nil
}

// OAuth providers supported by the server.
const (
	ProviderGoogle = "google"
	ProviderGitHub = "github"
)

// OAuthLoginURL returns the browser URL that starts an OAuth login. The
// server redirects back with the bearer token in the "token" query
// parameter.
func (c *Client) OAuthLoginURL(provider string) (string, error) {
	switch provider {
	case ProviderGoogle, ProviderGitHub:
		return c.baseURL + "/auth/" + provider + "/login", nil
	default:
		return "", fmt.Errorf("unsupported provider %q: must be google or github", provider)
	}
}

// TokenFromRedirect extracts the token from an OAuth redirect URL. A bare
// token is returned unchanged.
func TokenFromRedirect(s string) string {
	u, err := url.Parse(s)
	if err != nil || u.RawQuery == "" {
		return s
	}
	if tok := u.Query().Get("token"); tok != "" {
		return tok
	}
	return s
}
