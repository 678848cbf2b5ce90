// Package services provides the business logic for the API
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vectorops/dbdock/internal/db/models"
	"github.com/vectorops/dbdock/internal/db/repos"
	"github.com/vectorops/dbdock/internal/events"
	"github.com/vectorops/dbdock/internal/logger"
	"github.com/vectorops/dbdock/internal/provision"
	"github.com/vectorops/dbdock/internal/status"
	"github.com/vectorops/dbdock/internal/types"
)

// DefaultCleanupDelay is the grace period before a confirmed deletion's
// record is removed. The cleanup timer is best effort and non-blocking: if
// the process terminates first, the record simply stays until the next
// delete attempt.
const DefaultCleanupDelay = 30 * time.Second

// Service-level error classes the handlers translate into status codes.
var (
	// ErrInvalidConfiguration marks 400-class failures found after
	// validation, e.g. a derived resource name over the backend's limit.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrRecordNotFound marks a missing database record or execution.
	ErrRecordNotFound = errors.New("record not found")
)

// Database provides business logic for database provisioning operations.
type Database struct {
	repo         *repos.DatabaseRepository
	backend      provision.Client
	placement    provision.Placement
	cleanupDelay time.Duration
}

// NewDatabase creates a new database service.
func NewDatabase(repo *repos.DatabaseRepository, backend provision.Client, placement provision.Placement) *Database {
	return &Database{
		repo:         repo,
		backend:      backend,
		placement:    placement,
		cleanupDelay: DefaultCleanupDelay,
	}
}

// Create provisions a new database: builds the engine-specific payload,
// submits it to the backend, and persists the record only after the backend
// accepts the request.
func (s *Database) Create(ctx context.Context, req *types.CreateDatabaseRequest) (*types.CreateDatabaseResponse, *models.Database, error) {
	payload, err := provision.BuildPayload(req, s.placement)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	result, err := s.backend.Deploy(ctx, payload)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create database: %w", err)
	}

	deploymentID := result.EffectiveID()
	if deploymentID == "" {
		deploymentID = "deploy-" + uuid.New().String()
	}

	record := &models.Database{
		OwnerID:      req.UserID,
		OwnerEmail:   req.UserEmail,
		Name:         req.DBName,
		Engine:       req.Engine,
		StorageGB:    req.StorageGB,
		Region:       req.Region,
		ExecutionID:  deploymentID,
		DeploymentID: deploymentID,
		ResourceName: payload.ContainerName,
		Status:       models.DatabaseStatusCreating,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		// The backend accepted the deploy; surface the record failure but
		// keep the execution id in the log for manual reconciliation.
		logger.ErrorWithFields("Provisioning accepted but record creation failed", map[string]interface{}{
			"execution_id": deploymentID,
			"owner_id":     req.UserID,
			"error":        err.Error(),
		})
		return nil, nil, fmt.Errorf("failed to persist database record: %w", err)
	}

	logger.InfoWithFields("Database creation started", map[string]interface{}{
		"owner_id":       req.UserID,
		"engine":         req.Engine,
		"db_name":        req.DBName,
		"execution_id":   deploymentID,
		"container_name": payload.ContainerName,
	})

	events.Publish(events.Event{
		Type:        events.EventDatabaseCreated,
		DatabaseID:  record.ID,
		OwnerID:     req.UserID,
		Engine:      req.Engine,
		ExecutionID: deploymentID,
	})

	return &types.CreateDatabaseResponse{
		Message:                 "Database creation started successfully",
		ExecutionID:             deploymentID,
		DeploymentID:            deploymentID,
		DatabaseEngine:          req.Engine,
		DatabaseName:            req.DBName,
		ContainerName:           payload.ContainerName,
		EstimatedCompletionTime: req.Engine.EstimatedCompletionTime(),
	}, record, nil
}

// Delete requests removal of a provisioned database. The external call runs
// first; the record is only mutated once the backend's answer is known.
// An unreachable backend or a 404 downgrades to a soft delete: the record
// is removed immediately so the dashboard stays clean, and physical cleanup
// is left to the backend's own reconciliation.
func (s *Database) Delete(ctx context.Context, req *types.DeleteDatabaseRequest) (*types.DeleteDatabaseResponse, error) {
	recordID, err := parseRecordID(req.DatabaseID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	record, err := s.repo.GetByID(ctx, req.UserID, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: database %s", ErrRecordNotFound, req.DatabaseID)
		}
		return nil, err
	}

	result, err := s.backend.Delete(ctx, provision.BuildDeletePayload(req))
	if err != nil {
		switch {
		case errors.Is(err, provision.ErrNotFound):
			return s.softDelete(ctx, record, req,
				"Database appears to be already deleted",
				"Database was not found in the system - may have been deleted previously",
				"not-found-")
		case errors.Is(err, provision.ErrUnreachable):
			return s.softDelete(ctx, record, req,
				"Database marked for deletion (API temporarily unavailable - removing from dashboard)",
				"Physical deletion may need to be completed manually",
				"soft-delete-")
		default:
			return nil, fmt.Errorf("failed to delete database: %w", err)
		}
	}

	deletionID := result.EffectiveID()
	if deletionID == "" {
		deletionID = "delete-" + uuid.New().String()
	}
	deletionStatus := result.Status
	if deletionStatus == "" {
		deletionStatus = "DELETING"
	}

	if err := s.repo.Update(ctx, record.ID, &models.Database{
		Status:     models.DatabaseStatusDeleting,
		DeletionID: deletionID,
	}); err != nil {
		logger.Warnf("Failed to mark database %d as deleting: %v", record.ID, err)
	}

	s.scheduleCleanup(record.ID)

	events.Publish(events.Event{
		Type:       events.EventDatabaseDeleted,
		DatabaseID: record.ID,
		OwnerID:    req.UserID,
		Engine:     record.Engine,
	})

	return &types.DeleteDatabaseResponse{
		Success:               true,
		Message:               "Database deletion started successfully",
		DeletionID:            deletionID,
		ContainerName:         req.ContainerName,
		Status:                deletionStatus,
		EstimatedDeletionTime: record.Engine.EstimatedDeletionTime(),
	}, nil
}

// softDelete removes the record immediately and reports a degraded success.
func (s *Database) softDelete(ctx context.Context, record *models.Database, req *types.DeleteDatabaseRequest, message, warning, idPrefix string) (*types.DeleteDatabaseResponse, error) {
	logger.WarnWithFields("Soft-deleting database record", map[string]interface{}{
		"database_id":    record.ID,
		"container_name": req.ContainerName,
		"reason":         message,
	})

	if err := s.repo.Delete(ctx, record.ID); err != nil {
		return nil, fmt.Errorf("failed to remove database record: %w", err)
	}

	events.Publish(events.Event{
		Type:       events.EventDatabaseDeleted,
		DatabaseID: record.ID,
		OwnerID:    req.UserID,
		Engine:     record.Engine,
		SoftDelete: true,
	})

	return &types.DeleteDatabaseResponse{
		Success:       true,
		Message:       message,
		DeletionID:    idPrefix + uuid.New().String(),
		ContainerName: req.ContainerName,
		Status:        "DELETED",
		SoftDelete:    true,
		Warning:       warning,
	}, nil
}

// scheduleCleanup removes the record after the grace period. Best effort:
// no retry, and a process restart cancels the timer.
func (s *Database) scheduleCleanup(recordID uint) {
	time.AfterFunc(s.cleanupDelay, func() {
		if err := s.repo.Delete(context.Background(), recordID); err != nil {
			logger.Warnf("Could not auto-remove deleted database %d: %v", recordID, err)
		}
	})
}

// CheckStatus polls the backend for an execution's state, normalizes the
// response, and persists the outcome onto the record when one is known.
func (s *Database) CheckStatus(ctx context.Context, req *types.StatusCheckRequest) (*status.Report, error) {
	raw, err := s.backend.ExecutionStatus(ctx, req.ExecutionID)
	if err != nil {
		if errors.Is(err, provision.ErrNotFound) {
			return nil, fmt.Errorf("%w: execution %s", ErrRecordNotFound, req.ExecutionID)
		}
		return nil, fmt.Errorf("failed to check database status: %w", err)
	}

	report := status.Normalize(raw, req.ExecutionID, req.Engine, time.Now().UTC())

	if record := s.findRecord(ctx, req); record != nil {
		newStatus := models.StatusFromReport(report)
		if newStatus != models.DatabaseStatusUnknown {
			var info interface{}
			if report.ConnectionInfo != nil {
				info = report.ConnectionInfo
			}
			if err := s.repo.UpdateStatusReport(ctx, record.ID, newStatus, info, report.LastChecked); err != nil {
				logger.Warnf("Failed to persist status for database %d: %v", record.ID, err)
			}
		}
	}

	return report, nil
}

// findRecord resolves the record a status check refers to, preferring the
// explicit database id and falling back to the execution id. Best effort.
func (s *Database) findRecord(ctx context.Context, req *types.StatusCheckRequest) *models.Database {
	if req.DatabaseID != "" {
		if id, err := parseRecordID(req.DatabaseID); err == nil {
			if record, err := s.repo.GetByID(ctx, req.UserID, id); err == nil {
				return record
			}
		}
	}
	record, err := s.repo.GetByExecutionID(ctx, req.UserID, req.ExecutionID)
	if err != nil {
		return nil
	}
	return record
}

// List returns the caller's database records.
func (s *Database) List(ctx context.Context, ownerID string, opts *models.ListOptions) ([]models.Database, error) {
	return s.repo.List(ctx, ownerID, opts)
}

// Get returns a single record scoped to the caller.
func (s *Database) Get(ctx context.Context, ownerID string, id uint) (*models.Database, error) {
	record, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: database %d", ErrRecordNotFound, id)
		}
		return nil, err
	}
	return record, nil
}

func parseRecordID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid database id: %s", raw)
	}
	return uint(id), nil
}
