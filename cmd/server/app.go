package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/benkyoapp/nihongo-api/internal/config"
	"github.com/benkyoapp/nihongo-api/internal/domain/srs"
	"github.com/benkyoapp/nihongo-api/internal/events"
	"github.com/benkyoapp/nihongo-api/internal/platform/postgres"
	"github.com/benkyoapp/nihongo-api/internal/service/auth"
	"github.com/benkyoapp/nihongo-api/internal/service/review"
	"github.com/benkyoapp/nihongo-api/internal/store"
)

// progressEventLogger is an event handler that records progression
// events in the structured log. It stands in for downstream consumers
// like push notifications or analytics.
type progressEventLogger struct {
	logger *slog.Logger
}

// HandleEvent implements events.EventHandler.
func (h *progressEventLogger) HandleEvent(ctx context.Context, event *events.ProgressEvent) error {
	switch event.Type {
	case events.EventTypeLevelUp:
		var payload events.LevelUpPayload
		if err := event.UnmarshalPayload(&payload); err != nil {
			return fmt.Errorf("failed to unmarshal level-up payload: %w", err)
		}
		h.logger.Info("learner leveled up",
			"learner_id", event.LearnerID,
			"old_level", payload.OldLevel,
			"new_level", payload.NewLevel,
			"event_id", event.ID)

	case events.EventTypeAchievementUnlocked:
		var payload events.AchievementUnlockedPayload
		if err := event.UnmarshalPayload(&payload); err != nil {
			return fmt.Errorf("failed to unmarshal achievement payload: %w", err)
		}
		h.logger.Info("achievements unlocked",
			"learner_id", event.LearnerID,
			"achievement_ids", payload.AchievementIDs,
			"event_id", event.ID)

	default:
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
	}

	return nil
}

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	learnerStore store.LearnerStore
	profileStore store.ProfileStore

	// Service interfaces
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	srsService       srs.Service
	progressService  review.ProgressService

	// Event system
	eventEmitter events.EventEmitter
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration, logger, and database connection that
// must be established before application initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize JWT service
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Initialize password verifier
	app.passwordVerifier = auth.NewBcryptVerifier()

	// Initialize stores
	app.learnerStore = postgres.NewPostgresLearnerStore(db, bcrypt.DefaultCost, logger)
	app.profileStore = postgres.NewPostgresProfileStore(db, logger)

	// Initialize event emitter and register the logging consumer
	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(&progressEventLogger{
		logger: logger.With("component", "progress_event_logger"),
	})
	app.eventEmitter = emitter

	// Initialize the review scheduler, honoring a configured decay step
	if cfg.SRS.DecayStep > 0 {
		app.srsService = srs.NewServiceWithParams(srs.NewParams(srs.ParamsConfig{
			DecayStep: cfg.SRS.DecayStep,
		}))
		logger.Info("Review scheduler initialized", "decay_step", cfg.SRS.DecayStep)
	} else {
		app.srsService = srs.NewDefaultService()
	}

	// Initialize the progression service
	app.progressService = review.NewProgressService(
		db,
		app.profileStore,
		app.srsService,
		app.eventEmitter,
		logger,
	)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
