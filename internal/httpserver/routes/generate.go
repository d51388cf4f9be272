package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/mw"
)

func init() { Register(registerGenerate) }

func registerGenerate(r chi.Router, d deps.Deps) {
	chain := []func(http.Handler) http.Handler{
		mw.EnforceHost(d.AllowedHosts, d.Logger),
		mw.RequireSession(d.Sessions, d.Logger),
	}
	if d.Limiter != nil {
		// After RequireSession so the counter is keyed by user.
		chain = append(chain, mw.RateLimit(d.Limiter, mw.RateLimitConfig{
			Name:       "generate",
			Limit:      d.RateLimit,
			Window:     d.RateWindow,
			TrustProxy: d.TrustProxy,
		}, d.Logger))
	}
	r.With(chain...).Post("/api/generate-copy", handlers.GenerateCopy(d))
}
