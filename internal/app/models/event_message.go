package models

import (
	"time"

	"github.com/google/uuid"
)

// EventMessage represents a message posted by a user on an event wall
type EventMessage struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	EventID   uuid.UUID `json:"eventId" db:"event_id"`
	Text      string    `json:"text" db:"text"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
