package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/bundlepitch/internal/domain"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/respond"
	"github.com/MrSnakeDoc/bundlepitch/internal/logger"
)

type usageResponse struct {
	Count      int  `json:"count"`
	Limit      int  `json:"limit"` // 0 = unlimited
	Subscribed bool `json:"subscribed"`
	// Remaining is null when generations are unlimited for the caller.
	Remaining *int `json:"remaining"`
}

// Usage reports how many generations the caller has made.
func Usage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := domain.SessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		count, err := d.History.Count(r.Context(), sess.UserID)
		if err != nil {
			d.Logger.Error("failed to count generations",
				logger.String("user_id", sess.UserID),
				logger.Error(err))
			respond.Error(w, http.StatusBadGateway, "Could not load usage")
			return
		}

		resp := usageResponse{
			Count:      count,
			Limit:      d.FreeLimit,
			Subscribed: sess.Subscribed,
		}
		if d.FreeLimit > 0 && !sess.Subscribed {
			left := max(d.FreeLimit-count, 0)
			resp.Remaining = &left
		}

		respond.JSON(w, http.StatusOK, resp)
	}
}
