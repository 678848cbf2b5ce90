package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vectorops/dbdock/internal/db/models"
	"github.com/vectorops/dbdock/internal/db/repos"
	"github.com/vectorops/dbdock/internal/events"
	"github.com/vectorops/dbdock/internal/logger"
	"github.com/vectorops/dbdock/internal/types"
)

// Upload provides business logic for PDF ingestion jobs.
type Upload struct {
	repo   *repos.UploadRepository
	dbRepo *repos.DatabaseRepository
}

// NewUpload creates a new upload service and registers its lifecycle
// event handlers.
func NewUpload(repo *repos.UploadRepository, dbRepo *repos.DatabaseRepository) *Upload {
	s := &Upload{repo: repo, dbRepo: dbRepo}
	events.Subscribe(events.EventDatabaseDeleted, s.handleDatabaseDeleted)
	return s
}

// handleDatabaseDeleted fails ingestion jobs that had not finished when
// their target database was removed.
func (s *Upload) handleDatabaseDeleted(ctx context.Context, event events.Event) error {
	affected, err := s.repo.FailUnfinishedByDatabase(ctx, event.OwnerID, event.DatabaseID, "target database was deleted")
	if err != nil {
		return fmt.Errorf("failing uploads for deleted database %d: %w", event.DatabaseID, err)
	}
	if affected > 0 {
		logger.InfoWithFields("Failed unfinished ingestion jobs for deleted database", map[string]interface{}{
			"owner_id":    event.OwnerID,
			"database_id": event.DatabaseID,
			"jobs":        affected,
		})
	}
	return nil
}

// Register validates and persists a batch of ingestion jobs against a
// provisioned database. The target database must exist, belong to the
// caller, and be fully provisioned.
func (s *Upload) Register(ctx context.Context, req *types.RegisterUploadRequest) ([]models.Upload, error) {
	database, err := s.dbRepo.GetByID(ctx, req.UserID, req.DatabaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: database %d", ErrRecordNotFound, req.DatabaseID)
		}
		return nil, err
	}
	if database.Status != models.DatabaseStatusCompleted {
		return nil, fmt.Errorf("%w: database %d is not ready for uploads (status %s)",
			ErrInvalidConfiguration, req.DatabaseID, database.Status)
	}

	jobs := make([]*models.Upload, len(req.Files))
	for i, f := range req.Files {
		jobs[i] = &models.Upload{
			OwnerID:        req.UserID,
			DatabaseID:     database.ID,
			FileName:       f.Name,
			FileSizeBytes:  f.SizeBytes,
			EmbeddingModel: req.EmbeddingModel,
			ChunkSize:      req.ChunkSize,
			ChunkOverlap:   req.ChunkOverlap,
			Status:         models.UploadStatusPending,
		}
	}

	if err := s.repo.CreateBatch(ctx, jobs); err != nil {
		return nil, fmt.Errorf("failed to register uploads: %w", err)
	}

	logger.InfoWithFields("Registered PDF ingestion jobs", map[string]interface{}{
		"owner_id":    req.UserID,
		"database_id": database.ID,
		"files":       len(jobs),
	})

	events.Publish(events.Event{
		Type:       events.EventUploadRegistered,
		DatabaseID: database.ID,
		OwnerID:    req.UserID,
		Engine:     database.Engine,
	})

	out := make([]models.Upload, len(jobs))
	for i, job := range jobs {
		out[i] = *job
	}
	return out, nil
}

// List returns the caller's ingestion jobs.
func (s *Upload) List(ctx context.Context, ownerID string, limit, offset int) ([]models.Upload, error) {
	return s.repo.List(ctx, ownerID, limit, offset)
}
