package models

import (
	"time"

	"github.com/google/uuid"
)

// Event represents a planned event at a geographic location
type Event struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	StartTime   time.Time  `json:"startTime" db:"start_time"`
	EndTime     time.Time  `json:"endTime" db:"end_time"`
	Latitude    float64    `json:"latitude" db:"latitude"`
	Longitude   float64    `json:"longitude" db:"longitude"`
	IsActive    bool       `json:"isActive" db:"is_active"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	DisabledOn  *time.Time `json:"disabledOn,omitempty" db:"disabled_on"`

	// Related entities
	Categories []*Category `json:"categories,omitempty"`
}
