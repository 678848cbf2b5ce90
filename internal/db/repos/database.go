// Package repos provides repository implementations for database access
package repos

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vectorops/dbdock/internal/db/models"
)

// DatabaseRepository provides access to database-record operations
type DatabaseRepository struct {
	db *gorm.DB
}

// NewDatabaseRepository creates a new database repository instance
func NewDatabaseRepository(db *gorm.DB) *DatabaseRepository {
	return &DatabaseRepository{db: db}
}

// Create persists a new database record
func (r *DatabaseRepository) Create(ctx context.Context, database *models.Database) error {
	if database.OwnerID == "" {
		return fmt.Errorf("invalid owner_id")
	}
	return r.db.WithContext(ctx).Create(database).Error
}

// GetByID retrieves a record by its ID, scoped to the owner
func (r *DatabaseRepository) GetByID(ctx context.Context, ownerID string, id uint) (*models.Database, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("invalid owner_id")
	}
	var database models.Database
	err := r.db.WithContext(ctx).
		Where(&models.Database{Model: gorm.Model{ID: id}, OwnerID: ownerID}).
		First(&database).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get database: %w", err)
	}
	return &database, nil
}

// GetByExecutionID retrieves a record by its execution ID, scoped to the owner
func (r *DatabaseRepository) GetByExecutionID(ctx context.Context, ownerID, executionID string) (*models.Database, error) {
	var database models.Database
	err := r.db.WithContext(ctx).
		Where(&models.Database{OwnerID: ownerID, ExecutionID: executionID}).
		First(&database).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get database: %w", err)
	}
	return &database, nil
}

// Update applies the non-zero fields of the given record
func (r *DatabaseRepository) Update(ctx context.Context, id uint, database *models.Database) error {
	return r.db.WithContext(ctx).
		Where(&models.Database{Model: gorm.Model{ID: id}}).
		Updates(database).Error
}

// UpdateStatus updates the status of a record
func (r *DatabaseRepository) UpdateStatus(ctx context.Context, id uint, status models.DatabaseStatus) error {
	return r.db.WithContext(ctx).Model(&models.Database{}).
		Where(&models.Database{Model: gorm.Model{ID: id}}).
		Update("status", status).Error
}

// UpdateStatusReport persists the outcome of a status check: lifecycle
// status, connection info when present, and the check timestamp.
func (r *DatabaseRepository) UpdateStatusReport(ctx context.Context, id uint, status models.DatabaseStatus, connectionInfo interface{}, checkedAt time.Time) error {
	updates := map[string]interface{}{
		"status":          status,
		"last_checked_at": checkedAt,
	}
	if connectionInfo != nil {
		updates["connection_info"] = connectionInfo
	}
	return r.db.WithContext(ctx).Model(&models.Database{}).
		Where(&models.Database{Model: gorm.Model{ID: id}}).
		Updates(updates).Error
}

// Delete removes a record (soft delete via gorm)
func (r *DatabaseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Database{}, id).Error
}

// applyListOptions applies the list options to the given query
func (r *DatabaseRepository) applyListOptions(query *gorm.DB, opts *models.ListOptions) *gorm.DB {
	if opts == nil {
		return query.Where("status != ?", models.DatabaseStatusDeleted).Limit(models.DefaultLimit)
	}

	if opts.Status != nil {
		if opts.StatusFilter == models.StatusFilterNotEqual {
			query = query.Where("status != ?", *opts.Status)
		} else {
			query = query.Where("status = ?", *opts.Status)
		}
	} else if !opts.IncludeDeleted {
		query = query.Where("status != ?", models.DatabaseStatusDeleted)
	}

	if opts.IncludeDeleted {
		query = query.Unscoped()
	}

	limit := opts.Limit
	if limit <= 0 || limit > models.DefaultLimit {
		limit = models.DefaultLimit
	}
	query = query.Limit(limit)
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	return query
}

// List returns the owner's records matching the provided options
func (r *DatabaseRepository) List(ctx context.Context, ownerID string, opts *models.ListOptions) ([]models.Database, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("invalid owner_id")
	}
	var databases []models.Database
	query := r.applyListOptions(
		r.db.WithContext(ctx).Where(&models.Database{OwnerID: ownerID}), opts)

	if err := query.Order("created_at DESC").Find(&databases).Error; err != nil {
		return nil, fmt.Errorf("failed to list databases: %w", err)
	}
	return databases, nil
}

// Count returns how many records the owner has, ignoring pagination
func (r *DatabaseRepository) Count(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Database{}).
		Where(&models.Database{OwnerID: ownerID}).
		Where("status != ?", models.DatabaseStatusDeleted).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count databases: %w", err)
	}
	return count, nil
}
