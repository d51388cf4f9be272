package domain

import "time"

// GeneratedCopy is the marketing copy produced for one bundle.
// It is immutable once produced and stored verbatim in a HistoryRecord.
type GeneratedCopy struct {
	Title     string   `json:"title"`
	Pitch     string   `json:"pitch"`
	Bullets   []string `json:"bullets"`
	Instagram string   `json:"instagram"`
}

// HistoryRecord is a stored, immutable result of a past generation request.
type HistoryRecord struct {
	// ID is a random UUID assigned when the record is created.
	ID string `json:"id"`

	// UserID is the identity that requested the generation.
	UserID string `json:"user_id"`

	BundleName string `json:"bundle_name"`

	// Tone is the resolved tone (unknown inputs are stored as "warm").
	Tone Tone `json:"tone"`

	// ToneLabel is the human label of Tone, e.g. "Luxury & Elegant".
	ToneLabel string `json:"tone_label"`

	Copy GeneratedCopy `json:"copy"`

	// CreatedAt is serialised as "timestamp" for API compatibility.
	CreatedAt time.Time `json:"timestamp"`
}
