package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"go.uber.org/zap"

	"github.com/justai-labs/justai-engine/pkg/config"
	"github.com/justai-labs/justai-engine/pkg/database"
	"github.com/justai-labs/justai-engine/pkg/handlers"
	"github.com/justai-labs/justai-engine/pkg/llm"
	"github.com/justai-labs/justai-engine/pkg/logging"
	"github.com/justai-labs/justai-engine/pkg/middleware"
	"github.com/justai-labs/justai-engine/pkg/repositories"
	"github.com/justai-labs/justai-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load("config.yaml", Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model))

	ctx := context.Background()

	// Migrations run over database/sql; the application itself uses pgx.
	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, cfg.Database.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = sqlDB.Close()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	agentRepo := repositories.NewAgentRepository(db)
	conversationRepo := repositories.NewConversationRepository(db)
	backupRepo := repositories.NewBackupRepository(db)
	userRepo := repositories.NewUserRepository(db)
	feedbackRepo := repositories.NewFeedbackRepository(db)

	agentService := services.NewAgentService(agentRepo, conversationRepo, backupRepo, logger)
	conversationService := services.NewConversationService(agentRepo, conversationRepo, backupRepo, logger)
	userService := services.NewUserService(userRepo, logger)
	feedbackService := services.NewFeedbackService(feedbackRepo, logger)

	llmClient, err := llm.NewClientFromConfig(&cfg.LLM, logger)
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}
	generatorService := services.NewDatasetGeneratorService(agentService, conversationService, llmClient, cfg.LLM.Temperature, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAgentsHandler(agentService, logger).RegisterRoutes(mux)
	handlers.NewConversationsHandler(conversationService, generatorService, logger).RegisterRoutes(mux)
	handlers.NewUsersHandler(userService, logger).RegisterRoutes(mux)
	handlers.NewFeedbackHandler(feedbackService, logger).RegisterRoutes(mux)

	server := &http.Server{
		Addr:    net.JoinHostPort(cfg.BindAddr, cfg.Port),
		Handler: middleware.RequestLogger(logger)(mux),
	}

	go func() {
		logger.Info("Starting justai-engine",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}
