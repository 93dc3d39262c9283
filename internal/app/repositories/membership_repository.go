package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cliqueup/cliqueup/internal/pkg/dberrors"
)

// membershipUniqueConstraint guards one membership per (user, event) pair.
const membershipUniqueConstraint = "event_memberships_user_event_key"

// MembershipRepository handles database operations for event memberships
type MembershipRepository struct {
	db *pgxpool.Pool
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// Create records that the user joined the event. Joining an event the
// user already belongs to is a no-op; the unique constraint on
// (user_id, event_id) keeps duplicate rows out.
func (r *MembershipRepository) Create(ctx context.Context, userID, eventID uuid.UUID) error {
	query := `
		INSERT INTO event_memberships (id, user_id, event_id)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.Exec(ctx, query, uuid.New(), userID, eventID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, membershipUniqueConstraint) {
			return nil
		}
		return fmt.Errorf("inserting event membership: %w", err)
	}

	return nil
}

// CountByEvent returns the number of members an event has
func (r *MembershipRepository) CountByEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM event_memberships WHERE event_id = $1`,
		eventID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting event memberships: %w", err)
	}
	return count, nil
}
