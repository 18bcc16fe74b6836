package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/ecobite/backend/internal/router"
	"github.com/ecobite/backend/internal/storage"
	"github.com/ecobite/backend/pkg/config"
	"github.com/ecobite/backend/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer config.CloseDB(db)

	// Initialize the image upload collaborator
	uploader, err := newUploader(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	if err := router.SetupRoutes(e, db, uploader, cfg); err != nil {
		log.Fatalf("Failed to setup routes: %v", err)
	}

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

// newUploader selects the configured storage driver: S3-compatible object
// storage when configured, local disk otherwise.
func newUploader(cfg *config.Config) (storage.Uploader, error) {
	if cfg.StorageDriver == "s3" && cfg.S3Bucket != "" {
		return storage.NewS3Uploader(context.Background(), storage.S3Config{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Key:      cfg.S3Key,
			Secret:   cfg.S3Secret,
			Endpoint: cfg.S3Endpoint,
			BaseURL:  cfg.S3BaseURL,
			Prefix:   "uploads",
		})
	}
	return storage.NewLocalUploader(cfg.UploadDir, cfg.UploadBaseURL)
}
