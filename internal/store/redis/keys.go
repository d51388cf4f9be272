package redis

import "strconv"

const (
	// KeyPrefixHistory is the prefix for per-user history lists
	KeyPrefixHistory = "bundlepitch:history:"
	// KeyPrefixEvent is the prefix for processed webhook event claims
	KeyPrefixEvent = "bundlepitch:stripe:event:"
	// KeyPrefixRate is the prefix for fixed-window rate counters
	KeyPrefixRate = "bundlepitch:rate:"
	// KeyPrefixSaved is the prefix for per-user lifetime save counters
	KeyPrefixSaved = "bundlepitch:saved:"
)

// HistoryKey returns the Redis key for a user's history list
func HistoryKey(userID string) string {
	return KeyPrefixHistory + userID
}

// SavedKey returns the Redis key counting every record userID ever saved.
// Retention trims the history list, never this counter.
func SavedKey(userID string) string {
	return KeyPrefixSaved + userID
}

// EventKey returns the Redis key claiming a webhook event id
func EventKey(eventID string) string {
	return KeyPrefixEvent + eventID
}

// RateKey returns the Redis key for subject's counter in the given window
func RateKey(subject string, window int64) string {
	return KeyPrefixRate + subject + ":" + strconv.FormatInt(window, 10)
}
