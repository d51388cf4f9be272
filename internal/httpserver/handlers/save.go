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

type saveCopyRequest struct {
	BundleName string               `json:"bundle_name"`
	Tone       string               `json:"tone"`
	Copy       domain.GeneratedCopy `json:"copy"`
}

// SaveCopy stores a copy the user edited after generation. Unlike
// GenerateCopy, a storage failure fails the request.
func SaveCopy(d deps.Deps) http.HandlerFunc {
	newID := d.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := domain.SessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		var req saveCopyRequest
		if err := respond.Decode(w, r, maxGenerateBody, &req); err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		name := strings.TrimSpace(req.BundleName)
		if name == "" || strings.TrimSpace(req.Copy.Title) == "" {
			respond.Error(w, http.StatusBadRequest, "Bundle name and copy title are required")
			return
		}
		if req.Copy.Bullets == nil {
			req.Copy.Bullets = []string{}
		}

		tone, _ := domain.ParseTone(req.Tone)
		tone = tone.Resolve()

		rec := &domain.HistoryRecord{
			ID:         newID(),
			UserID:     sess.UserID,
			BundleName: name,
			Tone:       tone,
			ToneLabel:  d.Generator.Label(tone),
			Copy:       req.Copy,
			CreatedAt:  d.Now().UTC(),
		}
		if err := d.History.Save(r.Context(), rec); err != nil {
			d.Logger.Error("failed to save copy",
				logger.String("user_id", sess.UserID),
				logger.Error(err))
			respond.Error(w, http.StatusBadGateway, "Failed to save copy history")
			return
		}

		respond.JSON(w, http.StatusCreated, rec)
	}
}
