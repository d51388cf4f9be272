package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/mw"
)

func init() { Register(registerMeta) }

func registerMeta(r chi.Router, d deps.Deps) {
	api := r.With(mw.EnforceHost(d.AllowedHosts, d.Logger))
	api.Get("/api/", handlers.Root(d))
	api.Get("/api/tones", handlers.Tones(d))
}
