package api

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) ack(ctx context.Context, r request, what string) (string, error) {
	r.auth = true
	var out Ack
	if err := c.doJSON(ctx, r, &out); err != nil {
		return "", fmt.Errorf("failed to %s: %w", what, err)
	}
	return out.Message, nil
}

// ChangePassword sets a new password for the current user.
func (c *Client) ChangePassword(ctx context.Context, newPassword string) (string, error) {
	return c.ack(ctx, request{
		method: http.MethodPost,
		path:   "/change-password",
		json:   map[string]string{"new_password": newPassword},
	}, "change password")
}

// UpdateUsername renames the current user.
func (c *Client) UpdateUsername(ctx context.Context, username string) (string, error) {
	return c.ack(ctx, request{
		method: http.MethodPost,
		path:   "/settings/username",
		json:   map[string]string{"new_username": username},
	}, "update username")
}

// UpdateTheme stores the theme preference (auto, light or dark).
func (c *Client) UpdateTheme(ctx context.Context, theme string) (string, error) {
	return c.ack(ctx, request{
		method: http.MethodPost,
		path:   "/settings/theme",
		json:   map[string]string{"theme": theme},
	}, "update theme")
}

// Enable2FA asks the server to email a code that confirms enabling 2FA.
func (c *Client) Enable2FA(ctx context.Context) (string, error) {
	return c.ack(ctx, request{method: http.MethodPost, path: "/settings/2fa/enable"}, "enable 2FA")
}

// ConfirmEnable2FA turns 2FA on with the emailed code.
func (c *Client) ConfirmEnable2FA(ctx context.Context, email, code string) (string, error) {
	return c.ack(ctx, request{
		method: http.MethodPost,
		path:   "/settings/2fa/confirm-enable",
		json:   VerifyRequest{Email: email, Code: code},
	}, "confirm 2FA activation")
}

// Disable2FA asks the server to email a code that confirms disabling 2FA.
func (c *Client) Disable2FA(ctx context.Context) (string, error) {
	return c.ack(ctx, request{method: http.MethodPost, path: "/settings/2fa/disable"}, "disable 2FA")
}

// ConfirmDisable2FA turns 2FA off with the emailed code.
func (c *Client) ConfirmDisable2FA(ctx context.Context, email, code string) (string, error) {
	return c.ack(ctx, request{
		method: http.MethodPost,
		path:   "/settings/2fa/confirm-disable",
		json:   VerifyRequest{Email: email, Code: code},
	}, "confirm 2FA deactivation")
}

// DeleteAccount removes the current user and everything they own.
func (c *Client) DeleteAccount(ctx context.Context) (string, error) {
	return c.ack(ctx, request{method: http.MethodDelete, path: "/users/me"}, "delete account")
}
