package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/respond"
)

type readyzResponse struct {
	Ready bool `json:"ready"`
}

// Readyz answers 503 until every critical dependency has passed a probe.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ready := d.Health == nil || d.Health.Ready()
		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(w, status, readyzResponse{Ready: ready})
	}
}
