package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx operations the repositories need. It is
// satisfied by both *pgxpool.Pool and pgx.Tx, so write paths can run
// inside a caller-owned transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories holds all the repository instances
type Repositories struct {
	EventRepository      *EventRepository
	CategoryRepository   *CategoryRepository
	MembershipRepository *MembershipRepository
	MessageRepository    *MessageRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		EventRepository:      NewEventRepository(db),
		CategoryRepository:   NewCategoryRepository(db),
		MembershipRepository: NewMembershipRepository(db),
		MessageRepository:    NewMessageRepository(db),
	}
}
