package domain

import "strings"

// BundleItem is one product in a bundle. It only lives for the duration of
// a single generation request and is never persisted on its own.
type BundleItem struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price,omitempty"`
}

// HasTitle reports whether the item carries a non-blank title.
func (i BundleItem) HasTitle() bool {
	return strings.TrimSpace(i.Title) != ""
}

// BundleRequest is the body of a copy generation request.
type BundleRequest struct {
	BundleName string       `json:"bundle_name"`
	Tone       string       `json:"tone"`
	Items      []BundleItem `json:"items"`
}

// Validate checks the required fields and returns the items that have a
// title, in their original order.
func (r BundleRequest) Validate() ([]BundleItem, error) {
	if strings.TrimSpace(r.BundleName) == "" || strings.TrimSpace(r.Tone) == "" || len(r.Items) == 0 {
		return nil, NewValidationError("Bundle name, tone, and items are required")
	}

	items := FilterTitled(r.Items)
	if len(items) == 0 {
		return nil, NewValidationError("At least one item with a title is required")
	}

	return items, nil
}

// FilterTitled drops the items whose title is blank.
func FilterTitled(items []BundleItem) []BundleItem {
	out := make([]BundleItem, 0, len(items))
	for _, item := range items {
		if item.HasTitle() {
			out = append(out, item)
		}
	}
	return out
}
