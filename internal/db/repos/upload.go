package repos

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/vectorops/dbdock/internal/db/models"
)

// UploadRepository provides access to PDF ingestion job records
type UploadRepository struct {
	db *gorm.DB
}

// NewUploadRepository creates a new upload repository instance
func NewUploadRepository(db *gorm.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

// CreateBatch persists a batch of upload jobs in a single transaction
func (r *UploadRepository) CreateBatch(ctx context.Context, uploads []*models.Upload) error {
	if len(uploads) == 0 {
		return nil
	}
	for _, u := range uploads {
		if u.OwnerID == "" {
			return fmt.Errorf("invalid owner_id")
		}
	}
	return r.db.WithContext(ctx).Create(uploads).Error
}

// GetByID retrieves an upload job by its ID, scoped to the owner
func (r *UploadRepository) GetByID(ctx context.Context, ownerID string, id uint) (*models.Upload, error) {
	var upload models.Upload
	err := r.db.WithContext(ctx).
		Where(&models.Upload{Model: gorm.Model{ID: id}, OwnerID: ownerID}).
		First(&upload).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get upload: %w", err)
	}
	return &upload, nil
}

// UpdateStatus updates the status of an upload job
func (r *UploadRepository) UpdateStatus(ctx context.Context, id uint, status models.UploadStatus, errMsg string) error {
	updates := map[string]interface{}{"status": status}
	if errMsg != "" {
		updates["error"] = errMsg
	}
	return r.db.WithContext(ctx).Model(&models.Upload{}).
		Where(&models.Upload{Model: gorm.Model{ID: id}}).
		Updates(updates).Error
}

// FailUnfinishedByDatabase marks the owner's pending and processing jobs
// against one database as failed, recording the reason. Returns the number
// of jobs affected.
func (r *UploadRepository) FailUnfinishedByDatabase(ctx context.Context, ownerID string, databaseID uint, reason string) (int64, error) {
	if ownerID == "" {
		return 0, fmt.Errorf("invalid owner_id")
	}
	result := r.db.WithContext(ctx).Model(&models.Upload{}).
		Where("owner_id = ? AND database_id = ? AND status IN ?",
			ownerID, databaseID,
			[]models.UploadStatus{models.UploadStatusPending, models.UploadStatusProcessing}).
		Updates(map[string]interface{}{
			"status": models.UploadStatusFailed,
			"error":  reason,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to fail uploads: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// List returns the owner's upload jobs, newest first
func (r *UploadRepository) List(ctx context.Context, ownerID string, limit, offset int) ([]models.Upload, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("invalid owner_id")
	}
	if limit <= 0 || limit > models.DefaultLimit {
		limit = models.DefaultLimit
	}

	var uploads []models.Upload
	err := r.db.WithContext(ctx).
		Where(&models.Upload{OwnerID: ownerID}).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&uploads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	return uploads, nil
}

// ListByDatabase returns the upload jobs registered against one database
func (r *UploadRepository) ListByDatabase(ctx context.Context, ownerID string, databaseID uint) ([]models.Upload, error) {
	var uploads []models.Upload
	err := r.db.WithContext(ctx).
		Where(&models.Upload{OwnerID: ownerID, DatabaseID: databaseID}).
		Order("created_at DESC").
		Find(&uploads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	return uploads, nil
}
