package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cliqueup/cliqueup/internal/app/models"
	"github.com/cliqueup/cliqueup/internal/pkg/apperrors"
)

// CategoryRepository handles database operations for categories
type CategoryRepository struct {
	db *pgxpool.Pool
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// GetOrCreate returns the category with the normalized form of the given
// label, creating it if it does not exist yet. The unique constraint on
// categories.label makes concurrent callers safe: a loser of the insert
// race falls through to re-reading the row the winner created.
func (r *CategoryRepository) GetOrCreate(ctx context.Context, q Querier, label string) (*models.Category, error) {
	normalized := models.NormalizeCategoryLabel(label)
	if normalized == "" {
		return nil, apperrors.ErrEmptyCategoryLabel
	}

	category, err := r.getByLabel(ctx, q, normalized)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("looking up category %q: %w", normalized, err)
	}

	var created models.Category
	err = q.QueryRow(ctx, `
		INSERT INTO categories (id, label)
		VALUES ($1, $2)
		ON CONFLICT (label) DO NOTHING
		RETURNING id, label`,
		uuid.New(), normalized).Scan(&created.ID, &created.Label)
	if err == nil {
		return &created, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("inserting category %q: %w", normalized, err)
	}

	// Insert conflicted with a concurrent creation; the row exists now.
	category, err = r.getByLabel(ctx, q, normalized)
	if err != nil {
		return nil, fmt.Errorf("re-reading category %q after conflict: %w", normalized, err)
	}
	return category, nil
}

// GetOrCreateAll applies GetOrCreate to each label in order. The result
// holds one category per input label; duplicate inputs yield the same
// category identity at each position.
func (r *CategoryRepository) GetOrCreateAll(ctx context.Context, q Querier, labels []string) ([]*models.Category, error) {
	categories := make([]*models.Category, 0, len(labels))
	for _, label := range labels {
		category, err := r.GetOrCreate(ctx, q, label)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func (r *CategoryRepository) getByLabel(ctx context.Context, q Querier, normalized string) (*models.Category, error) {
	var category models.Category
	err := q.QueryRow(ctx,
		`SELECT id, label FROM categories WHERE label = $1`,
		normalized).Scan(&category.ID, &category.Label)
	if err != nil {
		return nil, err
	}
	return &category, nil
}
