package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appRepos "github.com/cliqueup/cliqueup/internal/app/repositories"
)

// defaultCategories are common event categories created at startup so
// that tag search has something to match on a fresh database.
var defaultCategories = []string{
	"music",
	"sports",
	"food",
	"outdoors",
	"games",
	"art",
}

// CreateDefaultData seeds the default category set if missing.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	categoryRepo := appRepos.NewCategoryRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default categories...")
	var finalErr error

	for _, label := range defaultCategories {
		if _, err := categoryRepo.GetOrCreate(ctx, dbPool, label); err != nil {
			lgr.Error().Err(err).Str("label", label).Msg("Error creating default category")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr == nil {
		lgr.Info().Int("count", len(defaultCategories)).Msg("Default categories present")
	}
	return finalErr
}
