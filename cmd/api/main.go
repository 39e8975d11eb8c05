package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"profolio-backend/config"
	_ "profolio-backend/docs" // Important for Swagger
	v1 "profolio-backend/internal/delivery/http/v1"
	"profolio-backend/internal/repository/postgres"
	"profolio-backend/internal/session"
	"profolio-backend/internal/usecase"
	"profolio-backend/pkg/auth"
	"profolio-backend/pkg/database"
	"profolio-backend/pkg/logger"
	"profolio-backend/pkg/redis"
	"profolio-backend/pkg/storage"

	"github.com/go-playground/validator/v10"
)

// @title           Profolio Backend API
// @version         1.0
// @description     Backend for the Profolio portfolio builder using Clean Architecture.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting profolio backend", "port", cfg.Port)

	// 3. Run Migrations
	if err := database.RunMigrations(cfg.DBUrl, cfg.MigrationsDir); err != nil {
		logger.Log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// 4. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 5. Setup Redis (session cache + rate limiting; in-memory fallback if absent)
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, using in-memory fallback", "error", err)
	}
	defer redis.Close()

	// 6. Setup Blob Storage
	blobStore, err := storage.NewS3Store(context.Background(), storage.S3Config{
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		Endpoint:        cfg.S3Endpoint,
		PublicBaseURL:   cfg.S3PublicBaseURL,
	})
	if err != nil {
		logger.Log.Error("Failed to configure blob storage", "error", err)
		os.Exit(1)
	}

	// 7. Setup Repositories and Session Store
	profileRepo := postgres.NewProfileRepository(dbPool)
	projectRepo := postgres.NewProjectRepository(dbPool)
	sessionStore := session.NewStore(redis.Client(), time.Duration(cfg.SessionTTLMinutes)*time.Minute)

	// 8. Setup UseCases
	validate := validator.New()
	authUC := usecase.NewAuthUsecase(profileRepo, sessionStore, cfg.SupabaseUrl, cfg.SupabaseKey)
	profileUC := usecase.NewProfileUsecase(profileRepo, blobStore, sessionStore, validate)
	projectUC := usecase.NewProjectUsecase(projectRepo, validate)
	portfolioUC := usecase.NewPortfolioUsecase(profileRepo, projectRepo)

	// 9. Setup Auth Provider (JWKS)
	// Assuming Supabase URL is like https://xyz.supabase.co
	jwksURL := cfg.SupabaseUrl + "/auth/v1/.well-known/jwks.json"
	jwksProvider := auth.NewProvider(jwksURL)

	// 10. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:       authUC,
		ProfileUC:    profileUC,
		ProjectUC:    projectUC,
		PortfolioUC:  portfolioUC,
		JWKSProvider: jwksProvider,
		Config:       cfg,
	})

	// 11. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
