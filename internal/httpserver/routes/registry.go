package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/deps"
)

// Registrar mounts one feature's routes. Per-route middleware is applied
// inside it with r.With.
type Registrar func(r chi.Router, d deps.Deps)

var registry []Registrar

// Register queues reg for RegisterAll. Called from each route file's init.
func Register(reg Registrar) {
	registry = append(registry, reg)
}

// RegisterAll mounts every registered route on r. Called once from NewRouter.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, reg := range registry {
		reg(r, d)
	}
}
