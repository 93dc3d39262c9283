// Package services holds the business logic between the HTTP controllers
// and the repositories.
package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cliqueup/cliqueup/internal/app/models"
	"github.com/cliqueup/cliqueup/internal/app/repositories"
	"github.com/cliqueup/cliqueup/internal/db"
)

// The collaborator interfaces below are satisfied by the concrete
// repositories and the database handle. The service depends on them
// rather than the concrete types so tests can substitute doubles.

type eventStore interface {
	Create(ctx context.Context, q repositories.Querier, event *models.Event, categoryIDs []uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	FindCandidates(ctx context.Context, text *string, tags []string) ([]*models.Event, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool, disabledOn *time.Time) (bool, error)
}

type categoryStore interface {
	GetOrCreateAll(ctx context.Context, q repositories.Querier, labels []string) ([]*models.Category, error)
}

type membershipStore interface {
	Create(ctx context.Context, userID, eventID uuid.UUID) error
}

type messageStore interface {
	Create(ctx context.Context, message *models.EventMessage) error
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.EventMessage, error)
}

type txRunner interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}
