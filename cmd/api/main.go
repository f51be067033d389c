package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aggrepo/internal/application/services"
	"aggrepo/internal/domain/repository"
	"aggrepo/internal/infrastructure/bus"
	httpHandler "aggrepo/internal/infrastructure/http"
	"aggrepo/internal/infrastructure/memory"
	"aggrepo/internal/infrastructure/mongo"
	"aggrepo/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or could not be loaded")
	}

	appLog, err := logger.New(getEnv("LOG_MODE", "development"))
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer appLog.Sync()

	var (
		userRepo    repository.UserRepository
		healthCheck httpHandler.HealthCheck
	)
	switch storage := getEnv("STORAGE", "mongo"); storage {
	case "memory":
		appLog.Warn("using in-memory storage, data is lost on exit")
		userRepo = memory.NewUserRepository(appLog)
	case "mongo":
		mongoClient := connectMongo(appLog)
		defer func() {
			if err := mongoClient.Close(); err != nil {
				appLog.Error("error closing MongoDB connection", "error", err)
			}
		}()
		userRepo = mongo.NewMongoUserRepository(
			mongoClient.GetClient(),
			mongoClient.DatabaseName(),
			getEnv("USERS_COLLECTION", "users"),
			mongo.WithLogger(appLog),
		)
		healthCheck = mongoClient.Ping
	default:
		appLog.Fatal("unknown STORAGE", "storage", storage)
	}

	eventBus := bus.NewInMemoryEventBus(appLog)
	if err := bus.LogEvents(eventBus, appLog.With("component", "events")); err != nil {
		appLog.Fatal("failed to subscribe event logger", "error", err)
	}

	userService := services.NewUserService(userRepo, eventBus)
	userController := httpHandler.NewHTTPUserController(userService)

	server := &http.Server{
		Addr:              ":" + getEnv("PORT", "8080"),
		Handler:           httpHandler.NewRouter(appLog, userController, healthCheck),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLog.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		appLog.Error("server shutdown failed", "error", err)
	}
	appLog.Info("server stopped")
}

func connectMongo(appLog *logger.Logger) *mongo.MongoClient {
	timeout, err := time.ParseDuration(getEnv("MONGO_TIMEOUT", "10s"))
	if err != nil {
		appLog.Fatal("invalid MONGO_TIMEOUT", "error", err)
	}

	mongoConfig := &mongo.MongoConfig{
		URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		Database: getEnv("MONGO_DATABASE", "aggrepo"),
		Username: getEnv("MONGO_USERNAME", ""),
		Password: getEnv("MONGO_PASSWORD", ""),
		Timeout:  timeout,
	}

	mongoClient, err := mongo.NewMongoClient(mongoConfig)
	if err != nil {
		appLog.Fatal("failed to connect to MongoDB", "error", err)
	}
	appLog.Info("connected to MongoDB", "database", mongoConfig.Database)
	return mongoClient
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
