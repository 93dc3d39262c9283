package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cliqueup/cliqueup/internal/app/models"
	"github.com/cliqueup/cliqueup/internal/pkg/apperrors"
)

// EventRepository handles database operations for events
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts the event and its category associations. The caller
// passes the querier so the insert can participate in a transaction
// together with any category creation.
func (r *EventRepository) Create(ctx context.Context, q Querier, event *models.Event, categoryIDs []uuid.UUID) error {
	query := `
		INSERT INTO events (id, title, description, start_time, end_time, latitude, longitude, is_active, created_at, disabled_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := q.Exec(ctx, query,
		event.ID,
		event.Title,
		event.Description,
		event.StartTime,
		event.EndTime,
		event.Latitude,
		event.Longitude,
		event.IsActive,
		event.CreatedAt,
		event.DisabledOn,
	)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}

	for _, categoryID := range categoryIDs {
		_, err := q.Exec(ctx, `
			INSERT INTO event_categories (event_id, category_id)
			VALUES ($1, $2)
			ON CONFLICT (event_id, category_id) DO NOTHING`,
			event.ID, categoryID)
		if err != nil {
			return fmt.Errorf("inserting event category association: %w", err)
		}
	}

	return nil
}

// GetByID retrieves a single event with its categories
func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	query := `
		SELECT id, title, description, start_time, end_time, latitude, longitude, is_active, created_at, disabled_on
		FROM events
		WHERE id = $1
	`

	var event models.Event
	err := r.db.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.StartTime,
		&event.EndTime,
		&event.Latitude,
		&event.Longitude,
		&event.IsActive,
		&event.CreatedAt,
		&event.DisabledOn,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("retrieving event: %w", err)
	}

	categories, err := r.loadCategories(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	event.Categories = categories

	return &event, nil
}

// FindCandidates returns events matching the given filters. When text is
// non-nil the event description must contain it (case-insensitive). When
// tags is non-empty the event must carry at least one category whose
// label matches one of the tags. With neither filter, all events are
// returned.
func (r *EventRepository) FindCandidates(ctx context.Context, text *string, tags []string) ([]*models.Event, error) {
	query := `
		SELECT DISTINCT e.id, e.title, e.description, e.start_time, e.end_time,
			e.latitude, e.longitude, e.is_active, e.created_at, e.disabled_on
		FROM events e
	`

	args := []interface{}{}
	argIndex := 1

	if len(tags) > 0 {
		query += `
		JOIN event_categories ec ON ec.event_id = e.id
		JOIN categories c ON c.id = ec.category_id
		`
	}

	query += " WHERE 1=1"

	if text != nil {
		query += fmt.Sprintf(" AND e.description ILIKE '%%' || $%d || '%%'", argIndex)
		args = append(args, *text)
		argIndex++
	}

	if len(tags) > 0 {
		query += fmt.Sprintf(" AND c.label = ANY($%d)", argIndex)
		args = append(args, tags)
		argIndex++
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying candidate events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(
			&event.ID,
			&event.Title,
			&event.Description,
			&event.StartTime,
			&event.EndTime,
			&event.Latitude,
			&event.Longitude,
			&event.IsActive,
			&event.CreatedAt,
			&event.DisabledOn,
		); err != nil {
			return nil, fmt.Errorf("scanning event row: %w", err)
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, event := range events {
		categories, err := r.loadCategories(ctx, event.ID)
		if err != nil {
			return nil, err
		}
		event.Categories = categories
	}

	return events, nil
}

// SetActive transitions the event's active flag and deactivation
// timestamp. It reports whether an event row was actually updated.
func (r *EventRepository) SetActive(ctx context.Context, id uuid.UUID, active bool, disabledOn *time.Time) (bool, error) {
	query := `
		UPDATE events
		SET is_active = $2, disabled_on = $3
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, active, disabledOn)
	if err != nil {
		return false, fmt.Errorf("updating event state: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// loadCategories fetches the categories associated with an event
func (r *EventRepository) loadCategories(ctx context.Context, eventID uuid.UUID) ([]*models.Category, error) {
	query := `
		SELECT c.id, c.label
		FROM categories c
		JOIN event_categories ec ON ec.category_id = c.id
		WHERE ec.event_id = $1
		ORDER BY c.label
	`

	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("querying event categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Label); err != nil {
			return nil, fmt.Errorf("scanning category row: %w", err)
		}
		categories = append(categories, &category)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}
