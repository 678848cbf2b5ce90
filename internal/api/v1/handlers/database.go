// Package handlers provides HTTP request handlers for the API
package handlers

import (
	"errors"
	"fmt"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/vectorops/dbdock/internal/db/models"
	"github.com/vectorops/dbdock/internal/services"
	"github.com/vectorops/dbdock/internal/types"
	"github.com/vectorops/dbdock/internal/validation"
)

// DatabaseHandler handles HTTP requests for database provisioning operations
type DatabaseHandler struct {
	service *services.Database
}

// NewDatabaseHandler creates a new database handler instance
func NewDatabaseHandler(service *services.Database) *DatabaseHandler {
	return &DatabaseHandler{service: service}
}

// CreateDatabase handles the request to provision a new database
func (h *DatabaseHandler) CreateDatabase(c *fiber.Ctx) error {
	var req types.CreateDatabaseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput("Invalid request body"))
	}

	if err := req.ValidateRequired(); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(err.Error()))
	}

	if nameErrors := validation.ValidateName(req.DBName, req.Engine); len(nameErrors) > 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput("Invalid database name", validation.ErrorStrings(nameErrors)...))
	}

	if engineErrors := validation.ValidateEngineRequirements(&req); len(engineErrors) > 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput("Invalid engine configuration", validation.ErrorStrings(engineErrors)...))
	}

	resp, _, err := h.service.Create(c.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidConfiguration) {
			return c.Status(fiber.StatusBadRequest).
				JSON(types.ErrInvalidInput(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrorResponse{Message: err.Error()})
	}

	return c.JSON(resp)
}

// DeleteDatabase handles the request to delete a database
func (h *DatabaseHandler) DeleteDatabase(c *fiber.Ctx) error {
	var req types.DeleteDatabaseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput("Invalid request body"))
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(err.Error()))
	}

	if err := validation.ValidateContainerName(req.ContainerName); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(err.Error()))
	}

	if req.Engine != "" && !req.Engine.IsValid() {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(fmt.Sprintf("Unsupported engine: %s", req.Engine)))
	}

	resp, err := h.service.Delete(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidConfiguration):
			return c.Status(fiber.StatusBadRequest).
				JSON(types.ErrInvalidInput(err.Error()))
		case errors.Is(err, services.ErrRecordNotFound):
			return c.Status(fiber.StatusNotFound).
				JSON(types.ErrorResponse{Message: "Database not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).
				JSON(types.ErrorResponse{Message: "Failed to delete database"})
		}
	}

	return c.JSON(resp)
}

// CheckDatabaseStatus handles the request to poll a provisioning execution
func (h *DatabaseHandler) CheckDatabaseStatus(c *fiber.Ctx) error {
	var req types.StatusCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput("Invalid request body"))
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(err.Error()))
	}

	report, err := h.service.CheckStatus(c.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).
				JSON(types.ErrorResponse{Message: "Execution not found or has expired"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrorResponse{Message: err.Error()})
	}

	return c.JSON(report)
}

// ListDatabases handles the request to list the caller's databases
func (h *DatabaseHandler) ListDatabases(c *fiber.Ctx) error {
	ownerID := c.Query("userId")
	if ownerID == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput("User ID is required"))
	}

	opts := &models.ListOptions{
		Limit:  c.QueryInt("limit", models.DefaultLimit),
		Offset: c.QueryInt("offset", 0),
	}
	if statusStr := c.Query("status"); statusStr != "" {
		parsed, err := models.ParseDatabaseStatus(statusStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(types.ErrInvalidInput(fmt.Sprintf("invalid database status: %v", err)))
		}
		opts.Status = &parsed
	}

	databases, err := h.service.List(c.Context(), ownerID, opts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrorResponse{Message: "Failed to list databases"})
	}

	return c.JSON(types.ListResponse[models.Database]{
		Rows: databases,
		Pagination: types.PaginationResponse{
			Total:  len(databases),
			Page:   1,
			Limit:  opts.Limit,
			Offset: opts.Offset,
		},
	})
}

// GetDatabase returns details of a specific database record
func (h *DatabaseHandler) GetDatabase(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput("database id must be a positive integer"))
	}

	ownerID := c.Query("userId")
	if ownerID == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput("User ID is required"))
	}

	database, err := h.service.Get(c.Context(), ownerID, uint(id))
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).
				JSON(types.ErrorResponse{Message: "Database not found"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrorResponse{Message: "Failed to get database"})
	}

	return c.JSON(database)
}
