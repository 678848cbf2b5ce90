// Package routes configures the API routes
package routes

import (
	fiber "github.com/gofiber/fiber/v2"

	"github.com/vectorops/dbdock/internal/api/v1/handlers"
	"github.com/vectorops/dbdock/internal/api/v1/middleware"
)

// API route path constants
const (
	// DefaultBaseURL is the default base URL for the API client
	DefaultBaseURL = "http://localhost:8080"

	// APIv1Prefix is the path prefix for v1 routes
	APIv1Prefix = "/api/v1"

	// DatabasesPath is the databases collection route
	DatabasesPath = APIv1Prefix + "/databases"
	// DatabaseStatusPath is the status-check route
	DatabaseStatusPath = DatabasesPath + "/status"
	// UploadsPath is the uploads collection route
	UploadsPath = APIv1Prefix + "/uploads"
)

// RegisterRoutes configures all v1 routes on the app
func RegisterRoutes(app *fiber.App, databaseHandler *handlers.DatabaseHandler, uploadHandler *handlers.UploadHandler) {
	// Health check stays outside the authenticated group
	app.Get("/health", handlers.HealthCheck)

	v1 := app.Group(APIv1Prefix, middleware.AuthRequired())

	databases := v1.Group("/databases")
	databases.Post("/", databaseHandler.CreateDatabase)
	databases.Get("/", databaseHandler.ListDatabases)
	databases.Post("/status", databaseHandler.CheckDatabaseStatus)
	databases.Get("/:id", databaseHandler.GetDatabase)
	databases.Delete("/", databaseHandler.DeleteDatabase)

	uploads := v1.Group("/uploads")
	uploads.Post("/", uploadHandler.RegisterUploads)
	uploads.Get("/", uploadHandler.ListUploads)
}
