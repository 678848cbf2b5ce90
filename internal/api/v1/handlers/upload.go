package handlers

import (
	"errors"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/vectorops/dbdock/internal/db/models"
	"github.com/vectorops/dbdock/internal/services"
	"github.com/vectorops/dbdock/internal/types"
)

// UploadHandler handles HTTP requests for PDF ingestion jobs
type UploadHandler struct {
	service *services.Upload
}

// NewUploadHandler creates a new upload handler instance
func NewUploadHandler(service *services.Upload) *UploadHandler {
	return &UploadHandler{service: service}
}

// RegisterUploads handles the request to register PDF ingestion jobs
func (h *UploadHandler) RegisterUploads(c *fiber.Ctx) error {
	var req types.RegisterUploadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput("Invalid request body"))
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput(err.Error()))
	}

	uploads, err := h.service.Register(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRecordNotFound):
			return c.Status(fiber.StatusNotFound).
				JSON(types.ErrorResponse{Message: "Database not found"})
		case errors.Is(err, services.ErrInvalidConfiguration):
			return c.Status(fiber.StatusBadRequest).
				JSON(types.ErrInvalidInput(err.Error()))
		default:
			return c.Status(fiber.StatusInternalServerError).
				JSON(types.ErrorResponse{Message: "Failed to register uploads"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(types.ListResponse[models.Upload]{
		Rows: uploads,
		Pagination: types.PaginationResponse{
			Total: len(uploads),
			Page:  1,
			Limit: len(uploads),
		},
	})
}

// ListUploads handles the request to list the caller's ingestion jobs
func (h *UploadHandler) ListUploads(c *fiber.Ctx) error {
	ownerID := c.Query("userId")
	if ownerID == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(types.ErrInvalidInput("User ID is required"))
	}

	limit := c.QueryInt("limit", models.DefaultLimit)
	offset := c.QueryInt("offset", 0)

	uploads, err := h.service.List(c.Context(), ownerID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(types.ErrorResponse{Message: "Failed to list uploads"})
	}

	return c.JSON(types.ListResponse[models.Upload]{
		Rows: uploads,
		Pagination: types.PaginationResponse{
			Total:  len(uploads),
			Page:   1,
			Limit:  limit,
			Offset: offset,
		},
	})
}
