package models

import (
	"strings"

	"github.com/google/uuid"
)

// Category represents a normalized text label attached to events for
// filtering. Labels are unique across the store.
type Category struct {
	ID    uuid.UUID `json:"id" db:"id"`
	Label string    `json:"label" db:"label"`
}

// NormalizeCategoryLabel trims surrounding whitespace and lower-cases a
// category label. All lookups and inserts go through this form.
func NormalizeCategoryLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
