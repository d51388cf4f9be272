package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/MrSnakeDoc/bundlepitch/internal/domain"
)

// SendMagicLink asks GoTrue to email a sign-in link to email. The link lands
// on redirectTo once followed.
func (c *Client) SendMagicLink(ctx context.Context, email, redirectTo string) error {
	var q url.Values
	if redirectTo != "" {
		q = url.Values{"redirect_to": {redirectTo}}
	}

	body := map[string]any{
		"email":       email,
		"create_user": true,
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/otp", q, c.anonKey, body)
	if err != nil {
		return err
	}

	if _, err := c.do(req, nil); err != nil {
		return fmt.Errorf("send magic link: %w", err)
	}
	return nil
}

// Refresh exchanges a refresh token for a fresh token pair. A rejected token
// is reported as ErrUnauthorized.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*domain.AuthTokens, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: missing refresh token", ErrUnauthorized)
	}

	q := url.Values{"grant_type": {"refresh_token"}}
	body := map[string]string{"refresh_token": refreshToken}
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/token", q, c.anonKey, body)
	if err != nil {
		return nil, err
	}

	var tokens domain.AuthTokens
	if _, err := c.do(req, &tokens); err != nil {
		// GoTrue answers 400 invalid_grant for unknown or reused tokens.
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest {
			return nil, fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Message)
		}
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	if tokens.AccessToken == "" {
		return nil, errors.New("refresh session: empty access token")
	}
	return &tokens, nil
}
