package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/examen/internal/common"
	"github.com/ternarybob/examen/internal/handlers"
	"github.com/ternarybob/examen/internal/interfaces"
	"github.com/ternarybob/examen/internal/quiz"
	"github.com/ternarybob/examen/internal/services/audio"
	"github.com/ternarybob/examen/internal/services/llm"
	"github.com/ternarybob/examen/internal/services/maintenance"
	"github.com/ternarybob/examen/internal/services/transcribe"
	badgerstorage "github.com/ternarybob/examen/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Pipeline services
	AudioService         interfaces.AudioService
	TranscriptionService interfaces.TranscriptionService
	GenerationService    interfaces.GenerationService
	QuizService          interfaces.QuizService

	// Background maintenance
	MaintenanceScheduler *maintenance.Scheduler

	// HTTP handlers
	APIHandler  *handlers.APIHandler
	QuizHandler *handlers.QuizHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	storageManager, err := badgerstorage.NewManager(logger, &cfg.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.StorageManager = storageManager

	audioService, err := audio.NewService(&cfg.Audio, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio service: %w", err)
	}
	app.AudioService = audioService
	app.TranscriptionService = transcribe.NewService(&cfg.Transcribe, logger)
	app.GenerationService = llm.NewService(cfg, logger)

	prompts, err := quiz.NewPromptBuilder(cfg.Quiz.PromptPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize prompt builder: %w", err)
	}

	app.QuizService = quiz.NewService(
		storageManager.QuizStorage(),
		app.GenerationService,
		app.AudioService,
		app.TranscriptionService,
		prompts,
		&cfg.Quiz,
		logger,
	)

	app.MaintenanceScheduler = maintenance.NewScheduler(storageManager, &cfg.Maintenance, logger)

	app.APIHandler = handlers.NewAPIHandler()
	app.QuizHandler = handlers.NewQuizHandler(app.QuizService)

	logger.Info().
		Str("provider", string(cfg.LLM.DefaultProvider)).
		Str("db_path", cfg.Storage.Badger.Path).
		Msg("Application initialized")

	return app, nil
}

// Start launches background components
func (a *App) Start() error {
	return a.MaintenanceScheduler.Start()
}

// Shutdown releases all application resources
func (a *App) Shutdown(ctx context.Context) error {
	a.Logger.Info().Msg("Shutting down application...")

	a.MaintenanceScheduler.Stop()

	if err := a.GenerationService.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to close generation service")
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}

	a.Logger.Info().Msg("Application stopped")
	return nil
}
