package routes

import (
	"net/http"
	"sort"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bundlepitch/internal/copygen"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bundlepitch/internal/logger"
)

func TestRegisterAll_MountsInOrder(t *testing.T) {
	saved := registry
	t.Cleanup(func() { registry = saved })
	registry = nil

	var calls []string
	Register(func(chi.Router, deps.Deps) { calls = append(calls, "first") })
	Register(func(chi.Router, deps.Deps) { calls = append(calls, "second") })

	RegisterAll(chi.NewRouter(), deps.Deps{})
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestRegisterAll_RouteTable(t *testing.T) {
	r := chi.NewRouter()
	RegisterAll(r, deps.Deps{Logger: logger.NewNop(), Generator: copygen.New()})

	var got []string
	err := chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		got = append(got, method+" "+route)
		return nil
	})
	require.NoError(t, err)
	sort.Strings(got)

	want := []string{
		"GET /api/",
		"GET /api/copy-history",
		"GET /api/session",
		"GET /api/tones",
		"GET /api/usage",
		"GET /healthz",
		"GET /infra",
		"GET /readyz",
		"POST /api/auth/magic-link",
		"POST /api/auth/refresh",
		"POST /api/generate-copy",
		"POST /api/save-copy",
		"POST /create-checkout-session",
		"POST /webhook",
	}
	assert.Equal(t, want, got)
}
