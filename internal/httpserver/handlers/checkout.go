package handlers

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/bundlepitch/internal/domain"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/respond"
	"github.com/MrSnakeDoc/bundlepitch/internal/logger"
)

const maxCheckoutBody = 4 << 10

type checkoutRequest struct {
	UserID string `json:"userId"`
}

type checkoutResponse struct {
	URL string `json:"url"`
}

// CreateCheckoutSession opens a subscription checkout for the given user.
// When the request carries a session, it must belong to that user.
func CreateCheckoutSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkoutRequest
		if err := respond.Decode(w, r, maxCheckoutBody, &req); err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		userID := strings.TrimSpace(req.UserID)
		if userID == "" {
			respond.Error(w, http.StatusBadRequest, "userId is required")
			return
		}

		if sess, ok := domain.SessionFromContext(r.Context()); ok && sess.UserID != userID {
			d.Logger.Warn("checkout requested for another user",
				logger.String("session_user", sess.UserID),
				logger.String("user_id", userID))
			respond.Error(w, http.StatusForbidden, "userId does not match the signed-in user")
			return
		}

		cs, err := d.Checkout.CreateCheckoutSession(r.Context(), userID)
		if err != nil {
			d.Logger.Error("stripe checkout failed",
				logger.String("user_id", userID),
				logger.Error(err))
			respond.Error(w, http.StatusInternalServerError, "Stripe error")
			return
		}

		d.Logger.Info("checkout session created",
			logger.String("user_id", userID),
			logger.String("session_id", cs.ID))
		respond.JSON(w, http.StatusOK, checkoutResponse{URL: cs.URL})
	}
}
