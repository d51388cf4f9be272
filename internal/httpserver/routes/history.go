package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/mw"
)

func init() { Register(registerHistory) }

func registerHistory(r chi.Router, d deps.Deps) {
	api := r.With(mw.EnforceHost(d.AllowedHosts, d.Logger), mw.RequireSession(d.Sessions, d.Logger))
	api.Get("/api/copy-history", handlers.CopyHistory(d))
	api.Get("/api/usage", handlers.Usage(d))
	api.Post("/api/save-copy", handlers.SaveCopy(d))
}
