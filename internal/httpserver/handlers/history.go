package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/bundlepitch/internal/config"
	"github.com/MrSnakeDoc/bundlepitch/internal/domain"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/respond"
	"github.com/MrSnakeDoc/bundlepitch/internal/logger"
)

// CopyHistory lists the caller's past generations, newest first.
func CopyHistory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := domain.SessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		limit, err := parseLimit(r.URL.Query().Get("limit"), d.HistoryLimit)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		records, err := d.History.List(r.Context(), sess.UserID, limit)
		if err != nil {
			d.Logger.Error("failed to list history",
				logger.String("user_id", sess.UserID),
				logger.Error(err))
			respond.Error(w, http.StatusBadGateway, "Could not load history")
			return
		}
		if records == nil {
			records = []domain.HistoryRecord{}
		}

		respond.JSON(w, http.StatusOK, records)
	}
}

// parseLimit reads ?limit=, falling back to def and clamping to [1, max].
func parseLimit(raw string, def int) (int, error) {
	n := def
	if raw = strings.TrimSpace(raw); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, domain.NewValidationError("limit must be an integer")
		}
		n = v
	}
	return min(max(n, 1), config.MaxHistoryLimit), nil
}
