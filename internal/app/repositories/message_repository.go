package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cliqueup/cliqueup/internal/app/models"
)

// MessageRepository handles database operations for event messages
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create persists a new event message and fills in its creation timestamp
func (r *MessageRepository) Create(ctx context.Context, message *models.EventMessage) error {
	query := `
		INSERT INTO event_messages (id, user_id, event_id, text)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		message.ID,
		message.UserID,
		message.EventID,
		message.Text,
	).Scan(&message.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting event message: %w", err)
	}

	return nil
}

// ListByEvent retrieves all messages posted to an event, oldest first
func (r *MessageRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.EventMessage, error) {
	query := `
		SELECT id, user_id, event_id, text, created_at
		FROM event_messages
		WHERE event_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("querying event messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.EventMessage
	for rows.Next() {
		var message models.EventMessage
		if err := rows.Scan(
			&message.ID,
			&message.UserID,
			&message.EventID,
			&message.Text,
			&message.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		messages = append(messages, &message)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}
