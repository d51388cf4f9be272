package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/bundlepitch/internal/domain"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bundlepitch/internal/httpserver/respond"
	"github.com/MrSnakeDoc/bundlepitch/internal/logger"
)

const maxGenerateBody = 64 << 10

// GenerateCopy validates a bundle, enforces the free quota, generates the
// copy and records it in the caller's history.
func GenerateCopy(d deps.Deps) http.HandlerFunc {
	newID := d.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	locks := &userLocks{}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sess, ok := domain.SessionFromContext(ctx)
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		log := d.Logger.With(logger.String("user_id", sess.UserID))

		var req domain.BundleRequest
		if err := respond.Decode(w, r, maxGenerateBody, &req); err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		items, err := req.Validate()
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		if d.FreeLimit > 0 && !sess.Subscribed {
			// Held until the record is saved.
			unlock := locks.lock(sess.UserID)
			defer unlock()

			used, err := d.History.Count(ctx, sess.UserID)
			if err != nil {
				log.Error("failed to count generations", logger.Error(err))
				respond.Error(w, http.StatusBadGateway, "Could not check your usage, please retry")
				return
			}
			if used >= d.FreeLimit {
				log.Info("free limit reached", logger.Int("used", used), logger.Int("limit", d.FreeLimit))
				respond.Error(w, http.StatusPaymentRequired, "Free generation limit reached, upgrade to keep generating")
				return
			}
		}

		tone, known := domain.ParseTone(req.Tone)
		if !known {
			log.Debug("unknown tone, using default",
				logger.String("tone", req.Tone),
				logger.String("default", string(domain.DefaultTone)))
		}
		tone = tone.Resolve()

		name := strings.TrimSpace(req.BundleName)
		out := d.Generator.Generate(name, tone, items)

		rec := &domain.HistoryRecord{
			ID:         newID(),
			UserID:     sess.UserID,
			BundleName: name,
			Tone:       tone,
			ToneLabel:  d.Generator.Label(tone),
			Copy:       out,
			CreatedAt:  d.Now().UTC(),
		}
		if err := d.History.Save(ctx, rec); err != nil {
			log.Error("failed to save history record",
				logger.String("record_id", rec.ID),
				logger.Error(err))
		}

		log.Info("copy generated",
			logger.String("tone", string(tone)),
			logger.Int("items", len(items)))
		respond.JSON(w, http.StatusOK, out)
	}
}
