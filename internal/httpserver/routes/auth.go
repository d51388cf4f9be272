package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/mw"
)

func init() { Register(registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	api := r.With(mw.EnforceHost(d.AllowedHosts, d.Logger))
	api.Post("/api/auth/magic-link", handlers.MagicLink(d))
	api.Post("/api/auth/refresh", handlers.RefreshSession(d))
	api.With(mw.RequireSession(d.Sessions, d.Logger)).Get("/api/session", handlers.Session(d))
}
