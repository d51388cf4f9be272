package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/respond"
	"github.com/MrSnakeDoc/bundlepitch/internal/scheduler"
)

type infraResponse struct {
	Mode           string             `json:"mode"`
	HistoryBackend string             `json:"history_backend"`
	FreeLimit      int                `json:"free_limit"`
	Components     []scheduler.Status `json:"components"`
}

// Infra reports the last probe of every dependency.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := []scheduler.Status{}
		if d.Health != nil {
			components = d.Health.Snapshot()
		}

		respond.JSON(w, http.StatusOK, infraResponse{
			Mode:           determineMode(components),
			HistoryBackend: d.HistoryBackend,
			FreeLimit:      d.FreeLimit,
			Components:     components,
		})
	}
}

// determineMode is "critical" when a critical dependency is down, "degraded"
// when only optional ones are, "operational" otherwise.
func determineMode(components []scheduler.Status) string {
	mode := "operational"
	for _, c := range components {
		if c.OK {
			continue
		}
		if c.Critical {
			return "critical"
		}
		mode = "degraded"
	}
	return mode
}
