// Package billing talks to Stripe: it opens hosted checkout sessions for the
// subscription plan and verifies the webhook events Stripe sends back.
package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

// MetadataUserID is the checkout metadata key holding the app user id.
const MetadataUserID = "userId"

// CheckoutSession is the part of a Stripe checkout session the app needs.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CheckoutConfig configures hosted checkout sessions.
type CheckoutConfig struct {
	SecretKey   string
	PriceID     string
	FrontendURL string

	// Backend overrides the Stripe API backend (tests, proxies).
	Backend stripe.Backend
}

// Checkout creates subscription checkout sessions.
type Checkout struct {
	client     *session.Client
	priceID    string
	successURL string
	cancelURL  string
}

func NewCheckout(cfg CheckoutConfig) *Checkout {
	backend := cfg.Backend
	if backend == nil {
		backend = stripe.GetBackend(stripe.APIBackend)
	}
	base := strings.TrimRight(cfg.FrontendURL, "/")

	return &Checkout{
		client:     &session.Client{B: backend, Key: cfg.SecretKey},
		priceID:    cfg.PriceID,
		successURL: base + "/success",
		cancelURL:  base,
	}
}

// CreateCheckoutSession opens a subscription checkout for userID. The user id
// travels both as client_reference_id and as metadata so the webhook can map
// the completed session back to the account.
func (c *Checkout) CreateCheckoutSession(ctx context.Context, userID string) (*CheckoutSession, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(c.priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(c.successURL),
		CancelURL:         stripe.String(c.cancelURL),
		ClientReferenceID: stripe.String(userID),
		Metadata:          map[string]string{MetadataUserID: userID},
	}
	params.Context = ctx

	s, err := c.client.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &CheckoutSession{ID: s.ID, URL: s.URL}, nil
}
