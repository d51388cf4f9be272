package domain

import (
	"context"
	"time"
)

// Session is the verified identity attached to a request.
type Session struct {
	UserID     string    `json:"user_id"`
	Email      string    `json:"email,omitempty"`
	Subscribed bool      `json:"subscribed"`
	ExpiresAt  time.Time `json:"expires_at"`

	// AccessToken is the raw bearer token; never serialised.
	AccessToken string `json:"-"`
}

// AuthTokens is what the identity provider hands back on a token refresh.
type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session stored by WithSession, if any.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}
