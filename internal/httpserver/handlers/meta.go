package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/respond"
)

type rootResponse struct {
	Message string `json:"message"`
}

func Root(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, rootResponse{Message: "BundlePitch API is running"})
	}
}

// Tones lists the selectable tones with their labels.
func Tones(d deps.Deps) http.HandlerFunc {
	tones := d.Generator.Tones()
	return func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, tones)
	}
}
