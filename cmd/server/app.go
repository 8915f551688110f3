package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/events"
	"github.com/phrazzld/todo-api/internal/platform/memory"
	"github.com/phrazzld/todo-api/internal/platform/migrate"
	"github.com/phrazzld/todo-api/internal/platform/postgres"
	"github.com/phrazzld/todo-api/internal/platform/sqlite"
	"github.com/phrazzld/todo-api/internal/service"
	"github.com/phrazzld/todo-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil for the memory driver.
	db *sql.DB

	taskStore store.TaskStore
	userStore store.UserStore

	taskService service.TaskService
	userService service.UserService

	eventEmitter *events.AsyncEmitter
}

// newApplication creates a new application instance with all dependencies initialized.
// On error, anything already opened is released.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	if logger == nil {
		logger = slog.Default()
	}

	app := &application{
		config: cfg,
		logger: logger,
	}

	if err := app.setupStores(ctx); err != nil {
		return nil, err
	}

	// Lifecycle events are audited off the request path.
	dispatcher := events.NewInMemoryEventEmitter(logger)
	dispatcher.RegisterHandler(events.NewAuditLogHandler(logger))
	app.eventEmitter = events.NewAsyncEmitter(dispatcher, events.AsyncEmitterConfig{
		QueueSize:   cfg.Events.QueueSize,
		WorkerCount: cfg.Events.WorkerCount,
	}, logger)
	app.eventEmitter.Start()

	var err error
	app.taskService, err = service.NewTaskService(
		app.taskStore,
		app.userStore,
		app.eventEmitter,
		service.TaskServiceConfig{
			MaxActiveTasks: cfg.Tasks.MaxActivePerUser,
			MinDeleteAge:   cfg.Tasks.MinDeleteAge,
		},
		logger,
	)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.userService = service.NewUserService(app.userStore, nil, logger)

	logger.Info("application initialized successfully",
		slog.String("database_driver", cfg.Database.Driver),
		slog.Int("max_active_per_user", cfg.Tasks.MaxActivePerUser),
		slog.Duration("min_delete_age", cfg.Tasks.MinDeleteAge))
	return app, nil
}

// setupStores opens the configured backend and builds the task and user stores on it.
func (app *application) setupStores(ctx context.Context) error {
	cfg := app.config.Database

	if cfg.Driver == driverMemory {
		db := memory.NewDB()
		app.taskStore = memory.NewTaskStore(db, app.logger)
		app.userStore = memory.NewUserStore(db, app.logger)
		return nil
	}

	db, src, err := openAppDatabase(ctx, cfg, app.logger)
	if err != nil {
		return err
	}
	app.db = db

	// A SQLite file is owned by this process, so its schema is always brought up to date.
	if cfg.Driver == driverSQLite || cfg.AutoMigrate {
		if err := migrate.Up(ctx, db, src, app.logger); err != nil {
			closeDatabase(db, app.logger)
			app.db = nil
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	switch cfg.Driver {
	case driverPostgres:
		app.taskStore = postgres.NewPostgresTaskStore(db, app.logger)
		app.userStore = postgres.NewPostgresUserStore(db, app.logger)
	case driverSQLite:
		app.taskStore = sqlite.NewTaskStore(db, app.logger)
		app.userStore = sqlite.NewUserStore(db, app.logger)
	}
	return nil
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
// Queued events are delivered before the database is closed.
func (app *application) cleanup() {
	if app.eventEmitter != nil {
		app.eventEmitter.Stop()
	}

	closeDatabase(app.db, app.logger)
	app.db = nil
}
