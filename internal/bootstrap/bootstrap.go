package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/cliqueup/cliqueup/internal/app/controllers"
	appMigrations "github.com/cliqueup/cliqueup/internal/app/migrations"
	appRepos "github.com/cliqueup/cliqueup/internal/app/repositories"
	appRoutes "github.com/cliqueup/cliqueup/internal/app/routes"
	appServices "github.com/cliqueup/cliqueup/internal/app/services"
	"github.com/cliqueup/cliqueup/internal/config"
	"github.com/cliqueup/cliqueup/internal/db"
	appMiddleware "github.com/cliqueup/cliqueup/internal/middleware"
	"github.com/cliqueup/cliqueup/internal/pkg/geocoding"
	"github.com/cliqueup/cliqueup/internal/pkg/logger"
	"github.com/cliqueup/cliqueup/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	EventService    appServices.EventService
	EventController *appControllers.EventController
	Repos           *appRepos.Repositories
	Geocoder        geocoding.Client
	Logger          zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Seeding is best-effort; the application works without it.
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	geocoderOpts := []geocoding.GoogleOption{}
	if cfg.Geocoding.BaseURL != "" {
		geocoderOpts = append(geocoderOpts, geocoding.WithBaseURL(cfg.Geocoding.BaseURL))
	}
	deps.Geocoder = geocoding.NewGoogleClient(cfg.Geocoding.APIKey, cfg.GeocodingTimeout(), geocoderOpts...)

	deps.EventService = appServices.NewEventService(
		deps.Repos.EventRepository,
		deps.Repos.CategoryRepository,
		deps.Repos.MembershipRepository,
		deps.Repos.MessageRepository,
		database,
		deps.Geocoder,
		lgr,
	)

	deps.EventController = appControllers.NewEventController(deps.EventService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(gin.Recovery())

	appRoutes.SetupRouter(router, deps.EventController)

	return router
}
