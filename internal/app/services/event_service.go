package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/cliqueup/cliqueup/internal/app/models"
	"github.com/cliqueup/cliqueup/internal/app/models/dto"
	"github.com/cliqueup/cliqueup/internal/pkg/apperrors"
	"github.com/cliqueup/cliqueup/internal/pkg/geo"
	"github.com/cliqueup/cliqueup/internal/pkg/geocoding"
)

// EventService exposes the event planning operations
type EventService interface {
	CreateEvent(ctx context.Context, req *dto.CreateEventRequest) (*models.Event, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error)
	OpenEvent(ctx context.Context, userID, eventID uuid.UUID) error
	CloseEvent(ctx context.Context, userID, eventID uuid.UUID) error
	JoinEvent(ctx context.Context, userID, eventID uuid.UUID) error
	PostMessage(ctx context.Context, userID, eventID uuid.UUID, text string) (*models.EventMessage, error)
	ListMessages(ctx context.Context, eventID uuid.UUID) ([]*models.EventMessage, error)
	ResolveLocation(ctx context.Context, address string) (geo.Coordinate, error)
	Search(ctx context.Context, query string, origin geo.Coordinate, radius float64, unit geo.Unit) ([]*models.Event, error)
	SearchByLocation(ctx context.Context, query, location string, radius float64, unit geo.Unit) ([]*models.Event, error)
}

// eventServiceImpl implements EventService
type eventServiceImpl struct {
	events      eventStore
	categories  categoryStore
	memberships membershipStore
	messages    messageStore
	tx          txRunner
	geocoder    geocoding.Client
	logger      zerolog.Logger
}

// NewEventService creates a new event service instance
func NewEventService(
	events eventStore,
	categories categoryStore,
	memberships membershipStore,
	messages messageStore,
	tx txRunner,
	geocoder geocoding.Client,
	logger zerolog.Logger,
) EventService {
	return &eventServiceImpl{
		events:      events,
		categories:  categories,
		memberships: memberships,
		messages:    messages,
		tx:          tx,
		geocoder:    geocoder,
		logger:      logger,
	}
}

// CreateEvent validates and persists a new event. The event and any
// categories it introduces are created in a single transaction, so a
// failure part-way leaves nothing behind.
func (s *eventServiceImpl) CreateEvent(ctx context.Context, req *dto.CreateEventRequest) (*models.Event, error) {
	if err := validateCreateEvent(req); err != nil {
		return nil, err
	}

	event := &models.Event{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		IsActive:    true,
		CreatedAt:   time.Now(),
		DisabledOn:  nil,
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		categories, err := s.categories.GetOrCreateAll(ctx, tx, req.Categories)
		if err != nil {
			return fmt.Errorf("resolving categories: %w", err)
		}

		// Category references are a set; duplicate input labels collapse
		// to one association.
		seen := make(map[uuid.UUID]bool, len(categories))
		categoryIDs := make([]uuid.UUID, 0, len(categories))
		for _, category := range categories {
			if seen[category.ID] {
				continue
			}
			seen[category.ID] = true
			categoryIDs = append(categoryIDs, category.ID)
			event.Categories = append(event.Categories, category)
		}

		if err := s.events.Create(ctx, tx, event, categoryIDs); err != nil {
			return fmt.Errorf("creating event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("eventId", event.ID.String()).
		Str("title", event.Title).
		Int("categories", len(event.Categories)).
		Msg("Event created")

	return event, nil
}

func validateCreateEvent(req *dto.CreateEventRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, apperrors.ErrEmptyTitle.Error())
	}
	if req.EndTime.Before(req.StartTime) {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, apperrors.ErrInvalidTimeRange.Error())
	}
	coord := geo.Coordinate{Latitude: req.Latitude, Longitude: req.Longitude}
	if !coord.Valid() {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, apperrors.ErrInvalidCoordinate.Error())
	}
	return nil
}

// GetEvent retrieves a single event by ID
func (s *eventServiceImpl) GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return s.events.GetByID(ctx, id)
}

// OpenEvent reactivates a closed event, clearing its deactivation
// timestamp.
func (s *eventServiceImpl) OpenEvent(ctx context.Context, userID, eventID uuid.UUID) error {
	updated, err := s.events.SetActive(ctx, eventID, true, nil)
	if err != nil {
		return err
	}
	if !updated {
		return apperrors.ErrEventNotFound
	}

	s.logger.Info().
		Str("eventId", eventID.String()).
		Str("userId", userID.String()).
		Msg("Event opened")
	return nil
}

// CloseEvent deactivates an event and records when it was disabled
func (s *eventServiceImpl) CloseEvent(ctx context.Context, userID, eventID uuid.UUID) error {
	now := time.Now()
	updated, err := s.events.SetActive(ctx, eventID, false, &now)
	if err != nil {
		return err
	}
	if !updated {
		return apperrors.ErrEventNotFound
	}

	s.logger.Info().
		Str("eventId", eventID.String()).
		Str("userId", userID.String()).
		Msg("Event closed")
	return nil
}

// JoinEvent records the user's membership in the event. Joining twice is
// idempotent.
func (s *eventServiceImpl) JoinEvent(ctx context.Context, userID, eventID uuid.UUID) error {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return err
	}
	return s.memberships.Create(ctx, userID, eventID)
}

// PostMessage posts a message to the event's wall
func (s *eventServiceImpl) PostMessage(ctx context.Context, userID, eventID uuid.UUID, text string) (*models.EventMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewValidationError("message text cannot be empty")
	}

	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	message := &models.EventMessage{
		ID:      uuid.New(),
		UserID:  userID,
		EventID: eventID,
		Text:    text,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}

	return message, nil
}

// ListMessages returns the messages posted to an event
func (s *eventServiceImpl) ListMessages(ctx context.Context, eventID uuid.UUID) ([]*models.EventMessage, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.messages.ListByEvent(ctx, eventID)
}

// ResolveLocation geocodes a free-text address. Failures surface as a
// *geocoding.Error; no fallback coordinate is ever returned.
func (s *eventServiceImpl) ResolveLocation(ctx context.Context, address string) (geo.Coordinate, error) {
	return s.geocoder.Resolve(ctx, address)
}

// SearchByLocation geocodes the location string and then searches around
// the resolved coordinate. A geocoding failure fails the whole search.
func (s *eventServiceImpl) SearchByLocation(ctx context.Context, query, location string, radius float64, unit geo.Unit) ([]*models.Event, error) {
	origin, err := s.geocoder.Resolve(ctx, location)
	if err != nil {
		return nil, err
	}
	return s.Search(ctx, query, origin, radius, unit)
}

// Search finds events matching the query's text and tag filters that lie
// within radius of the origin coordinate.
//
// The substring filter deliberately uses the full normalized query,
// including any #-prefixed tag tokens. Existing clients depend on this
// behavior, so do not strip the tags out before the substring test.
func (s *eventServiceImpl) Search(ctx context.Context, query string, origin geo.Coordinate, radius float64, unit geo.Unit) ([]*models.Event, error) {
	text := normalizeQuery(query)
	tags := parseTags(text)

	candidates, err := s.events.FindCandidates(ctx, text, tags)
	if err != nil {
		return nil, fmt.Errorf("fetching candidate events: %w", err)
	}

	results := make([]*models.Event, 0, len(candidates))
	for _, event := range candidates {
		distance := geo.Distance(origin.Latitude, origin.Longitude, event.Latitude, event.Longitude, unit)
		if distance <= radius {
			results = append(results, event)
		}
	}

	s.logger.Debug().
		Int("candidates", len(candidates)).
		Int("withinRadius", len(results)).
		Float64("radius", radius).
		Str("unit", string(unit)).
		Msg("Event search completed")

	return results, nil
}

// normalizeQuery trims and lower-cases the search query. An empty or
// blank query means "no text filter" and is returned as nil.
func normalizeQuery(query string) *string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return nil
	}
	return &normalized
}

// parseTags extracts #-prefixed tokens from the normalized query. The
// leading # is stripped for matching against category labels. An empty
// result means "no tag filter".
func parseTags(normalized *string) []string {
	if normalized == nil {
		return nil
	}

	var tags []string
	for _, token := range strings.Fields(*normalized) {
		if strings.HasPrefix(token, "#") {
			tags = append(tags, strings.TrimPrefix(token, "#"))
		}
	}
	return tags
}
