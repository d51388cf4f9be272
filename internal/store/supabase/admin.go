package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// MarkSubscribed sets user_metadata.is_subscribed=true on userID.
func (c *Client) MarkSubscribed(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("user id is required")
	}

	body := map[string]any{
		"user_metadata": map[string]any{"is_subscribed": true},
	}
	req, err := c.newRequest(ctx, http.MethodPut, "/auth/v1/admin/users/"+url.PathEscape(userID), nil, c.serviceKey, body)
	if err != nil {
		return err
	}

	if _, err := c.do(req, nil); err != nil {
		return fmt.Errorf("mark user %s subscribed: %w", userID, err)
	}
	return nil
}
