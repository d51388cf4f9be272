package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/mw"
)

func init() { Register(registerBilling) }

// Both paths sit outside /api for compatibility with existing Stripe
// dashboard and frontend configuration.
func registerBilling(r chi.Router, d deps.Deps) {
	pub := r.With(mw.EnforceHost(d.AllowedHosts, d.Logger))
	pub.With(mw.OptionalSession(d.Sessions)).Post("/create-checkout-session", handlers.CreateCheckoutSession(d))
	pub.Post("/webhook", handlers.StripeWebhook(d))
}
