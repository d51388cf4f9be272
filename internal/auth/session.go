// Package auth verifies the bearer access tokens issued by the identity
// provider and turns them into domain sessions.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrSnakeDoc/bundlepitch/internal/domain"
)

// Claims mirrors the access-token payload issued by Supabase.
type Claims struct {
	jwt.RegisteredClaims
	Email        string       `json:"email,omitempty"`
	Role         string       `json:"role,omitempty"`
	UserMetadata UserMetadata `json:"user_metadata,omitempty"`
}

// UserMetadata is the subset of user_metadata the app reads.
type UserMetadata struct {
	IsSubscribed bool `json:"is_subscribed,omitempty"`
}

// Verifier validates HS256 access tokens.
type Verifier struct {
	secret   []byte
	audience string
	now      func() time.Time
}

func NewVerifier(secret, audience string) *Verifier {
	return &Verifier{
		secret:   []byte(secret),
		audience: audience,
		now:      time.Now,
	}
}

// Verify parses and validates token and returns the session it describes.
// Every failure wraps domain.ErrUnauthorized.
func (v *Verifier) Verify(token string) (*domain.Session, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing token", domain.ErrUnauthorized)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token expired", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}

	s := &domain.Session{
		UserID:      claims.Subject,
		Email:       claims.Email,
		Subscribed:  claims.UserMetadata.IsSubscribed,
		AccessToken: token,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

// BearerToken extracts the token from an "Authorization: Bearer ..." header.
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// IssueToken signs an access token for userID. The identity provider issues
// real tokens; this exists for local tooling and tests.
func IssueToken(secret, audience, userID, email string, subscribed bool, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:        email,
		Role:         "authenticated",
		UserMetadata: UserMetadata{IsSubscribed: subscribed},
	}
	if audience != "" {
		claims.Audience = jwt.ClaimStrings{audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
