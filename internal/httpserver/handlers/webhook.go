package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/MrSnakeDoc/bundlepitch/internal/billing"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/respond"
	"github.com/MrSnakeDoc/bundlepitch/internal/logger"
)

const maxWebhookBody = 1 << 20

type webhookResponse struct {
	Received bool `json:"received"`
}

// StripeWebhook verifies a Stripe delivery and marks the buyer subscribed on
// checkout.session.completed. Redeliveries of a processed event are
// acknowledged without side effects.
func StripeWebhook(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respond.Error(w, http.StatusRequestEntityTooLarge, "Payload too large")
				return
			}
			respond.Error(w, http.StatusBadRequest, "Could not read payload")
			return
		}

		ev, err := d.Webhooks.Parse(payload, r.Header.Get("Stripe-Signature"))
		if err != nil {
			d.Logger.Warn("webhook rejected", logger.Error(err))
			if errors.Is(err, billing.ErrInvalidSignature) {
				respond.Error(w, http.StatusBadRequest, "Webhook signature verification failed")
				return
			}
			respond.Error(w, http.StatusBadRequest, "Webhook payload could not be decoded")
			return
		}

		log := d.Logger.With(logger.String("event_id", ev.ID), logger.String("event_type", ev.Type))
		if ev.Type != billing.EventCheckoutCompleted || ev.Checkout == nil {
			log.Debug("webhook event ignored")
			respond.JSON(w, http.StatusOK, webhookResponse{Received: true})
			return
		}

		claimed := false
		if d.Events != nil {
			ok, err := d.Events.Claim(ctx, ev.ID, d.WebhookDedupTTL)
			switch {
			case err != nil:
				// Marking a user subscribed twice is harmless.
				log.Warn("event claim unavailable, processing anyway", logger.Error(err))
			case !ok:
				log.Info("duplicate webhook event skipped")
				respond.JSON(w, http.StatusOK, webhookResponse{Received: true})
				return
			default:
				claimed = true
			}
		}

		userID := ev.Checkout.UserID
		if userID == "" {
			log.Warn("checkout completed without a user id",
				logger.String("session_id", ev.Checkout.SessionID))
			respond.JSON(w, http.StatusOK, webhookResponse{Received: true})
			return
		}

		if err := d.Subscriptions.MarkSubscribed(ctx, userID); err != nil {
			log.Error("failed to mark user subscribed",
				logger.String("user_id", userID),
				logger.Error(err))
			if claimed {
				if rerr := d.Events.Release(ctx, ev.ID); rerr != nil {
					log.Warn("failed to release event claim", logger.Error(rerr))
				}
			}
			respond.Error(w, http.StatusInternalServerError, "Could not update subscription")
			return
		}

		log.Info("user subscribed",
			logger.String("user_id", userID),
			logger.String("customer_id", ev.Checkout.CustomerID),
			logger.String("subscription_id", ev.Checkout.SubscriptionID))
		respond.JSON(w, http.StatusOK, webhookResponse{Received: true})
	}
}
