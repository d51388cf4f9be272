package billing

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// ErrInvalidSignature is returned when a payload fails signature checks.
var ErrInvalidSignature = errors.New("invalid stripe signature")

// EventCheckoutCompleted is the only event type with a side effect.
const EventCheckoutCompleted = string(stripe.EventTypeCheckoutSessionCompleted)

// Event is a verified webhook event.
type Event struct {
	ID   string
	Type string

	// Checkout is set for checkout.session.completed events.
	Checkout *CheckoutCompleted
}

// CheckoutCompleted describes a finished checkout.
type CheckoutCompleted struct {
	SessionID      string
	UserID         string
	CustomerID     string
	SubscriptionID string
}

type checkoutSessionPayload struct {
	ID              string            `json:"id"`
	Customer        string            `json:"customer"`
	Subscription    string            `json:"subscription"`
	ClientReference string            `json:"client_reference_id"`
	Metadata        map[string]string `json:"metadata"`
}

// Webhook verifies Stripe-Signature headers against a shared secret.
type Webhook struct {
	secret string
}

func NewWebhook(secret string) *Webhook {
	return &Webhook{secret: secret}
}

// Parse checks the signature of payload and decodes the event.
func (w *Webhook) Parse(payload []byte, sigHeader string) (*Event, error) {
	if strings.TrimSpace(sigHeader) == "" {
		return nil, fmt.Errorf("%w: missing header", ErrInvalidSignature)
	}

	ev, err := webhook.ConstructEventWithOptions(payload, sigHeader, w.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &Event{ID: ev.ID, Type: string(ev.Type)}
	if out.Type != EventCheckoutCompleted {
		return out, nil
	}

	if ev.Data == nil {
		return nil, errors.New("checkout event has no data")
	}
	var s checkoutSessionPayload
	if err := json.Unmarshal(ev.Data.Raw, &s); err != nil {
		return nil, fmt.Errorf("decode checkout.session: %w", err)
	}

	userID := strings.TrimSpace(s.Metadata[MetadataUserID])
	if userID == "" {
		userID = strings.TrimSpace(s.ClientReference)
	}

	out.Checkout = &CheckoutCompleted{
		SessionID:      s.ID,
		UserID:         userID,
		CustomerID:     s.Customer,
		SubscriptionID: s.Subscription,
	}
	return out, nil
}
