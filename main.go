package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/lohszeying/api-task-assignment/client"
	"github.com/lohszeying/api-task-assignment/config"
	"github.com/lohszeying/api-task-assignment/handlers"
	"github.com/lohszeying/api-task-assignment/interfaces"
	"github.com/lohszeying/api-task-assignment/logging"
	"github.com/lohszeying/api-task-assignment/repositories"
	"github.com/lohszeying/api-task-assignment/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: %v", err)
	}

	logging.InitLogger(logging.Options{Filename: cfg.LogFile, Level: cfg.LogLevel})
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Task Assignment Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := repositories.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection failed: %v", err)
	}
	defer db.Close()
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Connected to %s database", cfg.DBDriver)

	if cfg.DBAutoMigrate {
		if err := repositories.Migrate(db, cfg.DatabaseURL); err != nil {
			logging.Logger.Fatalf("Event ID: DB_MIGRATION_FAILED, Description: %v", err)
		}
	}

	if err := services.ValidateStatusIDs(ctx, db); err != nil {
		logging.Logger.Fatalf("Event ID: STATUS_TABLE_MISMATCH, Description: %v", err)
	}

	var inferencer *services.SkillInferencer
	if cfg.InferenceEnabled {
		classifier, err := client.NewGeminiClassifier(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logging.Logger.Fatalf("Event ID: CLASSIFIER_INIT_FAILED, Description: %v", err)
		}
		inferencer = services.NewSkillInferencer(classifier, cfg.InferenceTimeout)
		logging.Logger.Infof("Event ID: SKILL_INFERENCE_ENABLED, Description: Using %s in %s mode", cfg.GeminiModel, cfg.InferenceMode)
	}

	sinks := connectSinks(ctx, cfg)
	events := services.NewEventPublisher(sinks...)
	defer events.Close(context.Background())

	router := handlers.NewRouter(buildHandlers(db, inferencer, cfg.InferenceMode, events, sinks))

	srv := &http.Server{
		Handler:      handlers.EnableCORS(cfg.CORSOrigin, router),
		Addr:         fmt.Sprintf(":%s", cfg.ServerPort),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.InferenceTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logging.Logger.Info("Event ID: SERVER_SHUTDOWN, Description: Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Logger.Errorf("Event ID: SERVER_SHUTDOWN_FAILED, Description: %v", err)
	}
}

func buildHandlers(db *sqlx.DB, inferencer *services.SkillInferencer, mode string, events *services.EventPublisher, sinks []services.TaskEventSink) handlers.Handlers {
	tasks := repositories.NewTaskRepo(db)

	taskService := services.NewTaskService(
		services.NewTaskBuilder(db, tasks, inferencer, mode),
		services.NewAssignmentService(db, tasks),
		services.NewStatusTransitionService(db, tasks),
	)

	dbNow := func(ctx context.Context) (string, error) {
		return repositories.Now(ctx, db)
	}

	return handlers.Handlers{
		Tasks:      handlers.NewTaskHandler(taskService, services.NewTaskQueryService(tasks), events),
		Developers: handlers.NewDeveloperHandler(services.NewDeveloperService(db)),
		Directory:  handlers.NewDirectoryHandler(services.NewDirectoryService(db)),
		Health:     handlers.NewHealthHandler(dbNow),
		Activity:   handlers.NewActivityHandler(readableSinks(sinks)),
	}
}

// readableSinks picks the sinks whose records can be read back over HTTP.
func readableSinks(sinks []services.TaskEventSink) (interfaces.ActivityQueryContext, interfaces.NotificationQueryContext) {
	var activity interfaces.ActivityQueryContext
	var notifications interfaces.NotificationQueryContext
	for _, s := range sinks {
		if a, ok := s.(interfaces.ActivityQueryContext); ok && activity == nil {
			activity = a
		}
		if n, ok := s.(interfaces.NotificationQueryContext); ok && notifications == nil {
			notifications = n
		}
	}
	return activity, notifications
}

// connectSinks opens every configured event sink; a sink that cannot connect is skipped.
func connectSinks(ctx context.Context, cfg *config.Config) []services.TaskEventSink {
	var sinks []services.TaskEventSink

	if cfg.MongoURI != "" {
		activity, err := repositories.NewActivityRepo(ctx, cfg.MongoURI, cfg.MongoDBName, cfg.MongoCollection)
		if err != nil {
			logging.Logger.Warnf("Event ID: SINK_DISABLED, Description: Activity log unavailable: %v", err)
		} else {
			sinks = append(sinks, activity)
		}
	}

	if cfg.CassandraHost != "" {
		notifications, err := repositories.NewNotificationRepo(cfg.CassandraHost)
		if err != nil {
			logging.Logger.Warnf("Event ID: SINK_DISABLED, Description: Notifications unavailable: %v", err)
		} else {
			sinks = append(sinks, notifications)
		}
	}

	if cfg.Neo4jURI != "" {
		graph, err := repositories.NewGraphRepo(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
		if err != nil {
			logging.Logger.Warnf("Event ID: SINK_DISABLED, Description: Task graph unavailable: %v", err)
		} else {
			sinks = append(sinks, graph)
		}
	}

	for _, s := range sinks {
		logging.Logger.Infof("Event ID: SINK_ENABLED, Description: Publishing task events to %s", s.Name())
	}
	return sinks
}
