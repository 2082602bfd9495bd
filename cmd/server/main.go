package main

import (
	"coachhub/coaching-app/internal/api" // Import API package
	"coachhub/coaching-app/internal/config"
	"coachhub/coaching-app/internal/repository/mongo"
	"coachhub/coaching-app/internal/service"
	"coachhub/coaching-app/internal/storage"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.Info("Starting Coaching App Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logrus.WithError(err).Fatal("Could not load config")
	}
	logrus.Info("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		logrus.WithError(err).Fatal("Could not connect to MongoDB")
	}
	defer func() {
		logrus.Info("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			logrus.WithError(err).Error("Failed to disconnect MongoDB")
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	logrus.Info("Database connection established.")

	// --- Ensure Indexes ---
	logrus.Info("Ensuring database indexes...")
	go func() { // Run index creation concurrently/in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute) // Timeout for index creation
		defer cancel()
		if err := mongo.EnsureAllIndexes(ctx, appDB); err != nil {
			logrus.WithError(err).Error("Index creation failed")
			return
		}
		logrus.Info("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	logrus.Info("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize S3 storage")
	}

	// --- Initialize Repositories ---
	logrus.Info("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	programRepo := mongo.NewMongoProgramAssignmentRepository(appDB)
	replacementRepo := mongo.NewMongoReplacementRepository(appDB)
	completionRepo := mongo.NewMongoCompletionRepository(appDB)
	routineRepo := mongo.NewMongoRoutineAssignmentRepository(appDB)
	videoRepo := mongo.NewMongoVideoRepository(appDB)
	videoAssignRepo := mongo.NewMongoVideoAssignmentRepository(appDB)
	lessonRepo := mongo.NewMongoLessonRepository(appDB)

	// --- Initialize Services ---
	logrus.Info("Initializing services...")
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	coachService := service.NewCoachService(userRepo, programRepo, routineRepo, videoRepo, videoAssignRepo, fileStorage)
	clientService := service.NewClientService(videoRepo, videoAssignRepo, fileStorage)
	lessonService := service.NewLessonService(userRepo, lessonRepo, programRepo, replacementRepo, cfg.Schedule.MaxRecurrenceHorizon)
	calendarService := service.NewCalendarService(programRepo, replacementRepo, routineRepo, videoAssignRepo, lessonRepo, completionRepo)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	logrus.Info("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, authService, coachService, clientService, lessonService, calendarService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	logrus.WithField("address", cfg.Server.Address).Info("Server starting")

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("ListenAndServe error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the requests it is currently handling
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logrus.WithError(err).Fatal("Server forced to shutdown")
	}

	logrus.Info("Server exiting.")
}
