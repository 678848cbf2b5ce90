package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"github.com/vectorops/dbdock/internal/api/v1/handlers"
	"github.com/vectorops/dbdock/internal/api/v1/middleware"
	"github.com/vectorops/dbdock/internal/api/v1/routes"
	"github.com/vectorops/dbdock/internal/config"
	"github.com/vectorops/dbdock/internal/db"
	"github.com/vectorops/dbdock/internal/db/repos"
	"github.com/vectorops/dbdock/internal/events"
	"github.com/vectorops/dbdock/internal/logger"
	"github.com/vectorops/dbdock/internal/provision"
	"github.com/vectorops/dbdock/internal/services"
	"github.com/vectorops/dbdock/internal/types"
)

func main() {
	// Load .env file if present; the environment may already be populated.
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables")
	}

	logger.InitializeAndConfigure()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	gormDB, err := db.New(db.Options{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	databaseRepo := repos.NewDatabaseRepository(gormDB)
	uploadRepo := repos.NewUploadRepository(gormDB)

	backend, err := provision.NewHTTPClient(cfg.Backend)
	if err != nil {
		logger.Fatalf("Failed to create provisioning client: %v", err)
	}

	databaseService := services.NewDatabase(databaseRepo, backend, cfg.Placement)
	uploadService := services.NewUpload(uploadRepo, databaseRepo)

	databaseHandler := handlers.NewDatabaseHandler(databaseService)
	uploadHandler := handlers.NewUploadHandler(uploadService)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})
	app.Use(middleware.Logger())

	routes.RegisterRoutes(app, databaseHandler, uploadHandler)

	events.Start(context.Background())

	logger.Infof("Starting server on port %s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logger.Fatalf("Server stopped: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(types.ErrorResponse{
		Message: err.Error(),
	})
}
