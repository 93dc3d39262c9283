package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cliqueup/cliqueup/internal/app/models/dto"
	"github.com/cliqueup/cliqueup/internal/app/services"
	"github.com/cliqueup/cliqueup/internal/middleware"
	"github.com/cliqueup/cliqueup/internal/pkg/geo"
)

// EventController handles event-related HTTP endpoints
type EventController struct {
	eventService services.EventService
}

// NewEventController creates a new EventController
func NewEventController(eventService services.EventService) *EventController {
	return &EventController{eventService: eventService}
}

// CreateEvent handles event creation
func (c *EventController) CreateEvent(ctx *gin.Context) {
	var req dto.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid event data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	event, err := c.eventService.CreateEvent(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(event))
}

// GetEvent retrieves a single event
func (c *EventController) GetEvent(ctx *gin.Context) {
	eventID, ok := parseEventID(ctx)
	if !ok {
		return
	}

	event, err := c.eventService.GetEvent(ctx, eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(event))
}

// SearchEvents answers an event search with text/tag filters around a
// location given either as free text or as an explicit coordinate.
func (c *EventController) SearchEvents(ctx *gin.Context) {
	var query dto.SearchEventsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid search parameters").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	unit, ok := geo.ParseUnit(query.Unit)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Unknown distance unit").
			WithField("unit")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var events interface{}
	var err error
	switch {
	case query.Lat != nil && query.Lon != nil:
		origin := geo.Coordinate{Latitude: *query.Lat, Longitude: *query.Lon}
		events, err = c.eventService.Search(ctx, query.Query, origin, query.Radius, unit)
	case query.Location != "":
		events, err = c.eventService.SearchByLocation(ctx, query.Query, query.Location, query.Radius, unit)
	default:
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Either location or lat and lon must be provided")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(events))
}

// JoinEvent records a user joining an event
func (c *EventController) JoinEvent(ctx *gin.Context) {
	eventID, ok := parseEventID(ctx)
	if !ok {
		return
	}

	var req dto.JoinEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid join request").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.eventService.JoinEvent(ctx, req.UserID, eventID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Joined event"}))
}

// PostMessage posts a message to an event
func (c *EventController) PostMessage(ctx *gin.Context) {
	eventID, ok := parseEventID(ctx)
	if !ok {
		return
	}

	var req dto.PostMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid message").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	message, err := c.eventService.PostMessage(ctx, req.UserID, eventID, req.Text)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(message))
}

// ListMessages returns all messages posted to an event
func (c *EventController) ListMessages(ctx *gin.Context) {
	eventID, ok := parseEventID(ctx)
	if !ok {
		return
	}

	messages, err := c.eventService.ListMessages(ctx, eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(messages))
}

// OpenEvent reactivates a closed event
func (c *EventController) OpenEvent(ctx *gin.Context) {
	c.setEventState(ctx, true)
}

// CloseEvent deactivates an event
func (c *EventController) CloseEvent(ctx *gin.Context) {
	c.setEventState(ctx, false)
}

func (c *EventController) setEventState(ctx *gin.Context, open bool) {
	eventID, ok := parseEventID(ctx)
	if !ok {
		return
	}

	var req dto.EventStateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var err error
	if open {
		err = c.eventService.OpenEvent(ctx, req.UserID, eventID)
	} else {
		err = c.eventService.CloseEvent(ctx, req.UserID, eventID)
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Event state updated"}))
}

// ResolveLocation geocodes a free-text address
func (c *EventController) ResolveLocation(ctx *gin.Context) {
	address := ctx.Query("address")
	if address == "" {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Address is required").
			WithField("address")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	coord, err := c.eventService.ResolveLocation(ctx, address)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(coord))
}

func parseEventID(ctx *gin.Context) (uuid.UUID, bool) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid event ID").
			WithDetails("Event ID must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return uuid.Nil, false
	}
	return eventID, true
}
