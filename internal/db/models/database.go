// Package models defines the database models for the application
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vectorops/dbdock/internal/status"
	"github.com/vectorops/dbdock/internal/types"
)

// DatabaseStatus is the lifecycle state of a provisioned database record.
type DatabaseStatus int

const (
	// DatabaseStatusUnknown is first so it matches the zero value and lets
	// list queries span every status.
	DatabaseStatusUnknown DatabaseStatus = iota
	DatabaseStatusCreating
	DatabaseStatusCompleted
	DatabaseStatusFailed
	DatabaseStatusDeleting
	DatabaseStatusDeleted
)

var databaseStatusNames = []string{
	"UNKNOWN",
	"CREATING",
	"COMPLETED",
	"FAILED",
	"DELETING",
	"DELETED",
}

// Database is a provisioned database container owned by a user. The record
// mirrors the backend's view of the container; the backend remains the
// source of truth for execution state.
type Database struct {
	gorm.Model
	OwnerID        string                 `json:"owner_id" gorm:"not null;index"`
	OwnerEmail     string                 `json:"owner_email" gorm:"varchar(255)"`
	Name           string                 `json:"name" gorm:"not null;index"`
	Engine         types.Engine           `json:"engine" gorm:"not null;varchar(32)"`
	StorageGB      int                    `json:"storage_gb"`
	Region         string                 `json:"region" gorm:"varchar(64)"`
	ExecutionID    string                 `json:"execution_id" gorm:"index;varchar(255)"`
	DeploymentID   string                 `json:"deployment_id" gorm:"varchar(255)"`
	ResourceName   string                 `json:"resource_name" gorm:"not null;index;varchar(63)"`
	Status         DatabaseStatus         `json:"status" gorm:"index"`
	DeletionID     string                 `json:"deletion_id,omitempty" gorm:"varchar(255)"`
	ConnectionInfo *status.ConnectionInfo `json:"connection_info,omitempty" gorm:"serializer:json"`
	LastCheckedAt  *time.Time             `json:"last_checked_at,omitempty"`
}

func (s DatabaseStatus) String() string {
	if int(s) < 0 || int(s) >= len(databaseStatusNames) {
		return databaseStatusNames[DatabaseStatusUnknown]
	}
	return databaseStatusNames[s]
}

// ParseDatabaseStatus parses a status name into a DatabaseStatus.
func ParseDatabaseStatus(str string) (DatabaseStatus, error) {
	for i, name := range databaseStatusNames {
		if name == str {
			return DatabaseStatus(i), nil
		}
	}
	return DatabaseStatusUnknown, fmt.Errorf("invalid database status: %s", str)
}

// MarshalJSON renders the status by name.
func (s DatabaseStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses the status from its name.
func (s *DatabaseStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	parsed, err := ParseDatabaseStatus(str)
	if err != nil {
		return err
	}

	*s = parsed
	return nil
}

// StatusFromReport maps a normalized execution report onto the record's
// lifecycle status. Unrecognized raw statuses map to UNKNOWN.
func StatusFromReport(report *status.Report) DatabaseStatus {
	switch {
	case report.IsTerminalSuccess():
		return DatabaseStatusCompleted
	case report.IsTerminalFailure():
		return DatabaseStatusFailed
	}
	switch report.Status {
	case status.RawRunning, status.RawCreating, status.RawPending, status.RawStarting:
		return DatabaseStatusCreating
	default:
		return DatabaseStatusUnknown
	}
}
