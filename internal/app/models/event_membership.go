package models

import (
	"time"

	"github.com/google/uuid"
)

// EventMembership represents a user having joined an event. At most one
// membership exists per (user, event) pair.
type EventMembership struct {
	ID       uuid.UUID `json:"id" db:"id"`
	UserID   uuid.UUID `json:"userId" db:"user_id"`
	EventID  uuid.UUID `json:"eventId" db:"event_id"`
	JoinedAt time.Time `json:"joinedAt" db:"joined_at"`
}
