package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flexapp/flex-api/internal/api"
	"flexapp/flex-api/internal/config"
	"flexapp/flex-api/internal/llm"
	mongorepo "flexapp/flex-api/internal/repository/mongo"
	"flexapp/flex-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("starting FLEX API server")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Fatal("could not load config", zap.Error(err))
	}

	// --- Database Connection ---
	dbClient, err := mongorepo.ConnectDB(cfg.Database.URI)
	if err != nil {
		logger.Fatal("could not connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongorepo.DisconnectDB(dbClient); err != nil {
			logger.Error("failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	logger.Info("database connection established", zap.String("database", cfg.Database.Name))

	// --- Ensure Indexes ---
	// The unique username index must exist before the first registration;
	// it is what makes concurrent duplicate registrations impossible.
	indexCtx, indexCancel := context.WithTimeout(context.Background(), time.Minute)
	defer indexCancel()
	if err := mongorepo.EnsureUserIndexes(indexCtx, appDB.Collection("users")); err != nil {
		logger.Fatal("could not create user indexes", zap.Error(err))
	}
	if err := mongorepo.EnsurePlanIndexes(indexCtx, appDB.Collection("workout_plans")); err != nil {
		logger.Fatal("could not create plan indexes", zap.Error(err))
	}

	// --- Initialize Repositories ---
	userRepo := mongorepo.NewMongoUserRepository(appDB)
	planRepo := mongorepo.NewMongoPlanRepository(appDB)

	// --- Initialize Upstream Generator ---
	generator, err := llm.NewGeminiGenerator(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		logger.Fatal("could not initialize Gemini client", zap.Error(err))
	}
	logger.Info("generation client initialized", zap.String("model", cfg.Gemini.Model))

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Algorithm, cfg.JWT.Expiration)
	plannerService := service.NewPlannerService(planRepo, generator, cfg.Gemini.Timeout, logger)

	// --- Initialize Gin Engine ---
	router := gin.Default()

	// --- Setup Routes ---
	api.SetupRoutes(router, cfg.CORS, authService, plannerService, logger)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * cfg.Gemini.Timeout, // Generation responses outlive normal requests
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
