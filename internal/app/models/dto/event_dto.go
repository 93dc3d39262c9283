package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateEventRequest holds the payload for creating an event
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Categories  []string  `json:"categories"`
	StartTime   time.Time `json:"startTime" binding:"required"`
	EndTime     time.Time `json:"endTime" binding:"required"`
	Latitude    float64   `json:"latitude" binding:"min=-90,max=90"`
	Longitude   float64   `json:"longitude" binding:"min=-180,max=180"`
}

// JoinEventRequest holds the payload for joining an event
type JoinEventRequest struct {
	UserID uuid.UUID `json:"userId" binding:"required"`
}

// PostMessageRequest holds the payload for posting a message on an event
type PostMessageRequest struct {
	UserID uuid.UUID `json:"userId" binding:"required"`
	Text   string    `json:"text" binding:"required"`
}

// EventStateRequest holds the payload for opening or closing an event
type EventStateRequest struct {
	UserID uuid.UUID `json:"userId" binding:"required"`
}

// SearchEventsQuery holds the query parameters for event search.
// Either Location or both Lat and Lon must be supplied.
type SearchEventsQuery struct {
	Query    string   `form:"query"`
	Location string   `form:"location"`
	Lat      *float64 `form:"lat"`
	Lon      *float64 `form:"lon"`
	Radius   float64  `form:"radius" binding:"gte=0"`
	Unit     string   `form:"unit"`
}
