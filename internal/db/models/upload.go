package models

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

// UploadStatus is the lifecycle state of a PDF ingestion job.
type UploadStatus int

const (
	UploadStatusPending UploadStatus = iota
	UploadStatusProcessing
	UploadStatusCompleted
	UploadStatusFailed
)

var uploadStatusNames = []string{
	"pending",
	"processing",
	"completed",
	"failed",
}

// Upload is a registered PDF ingestion job: one file chunked and embedded
// into a provisioned database.
type Upload struct {
	gorm.Model
	OwnerID        string       `json:"owner_id" gorm:"not null;index"`
	DatabaseID     uint         `json:"database_id" gorm:"not null;index"`
	FileName       string       `json:"file_name" gorm:"not null;varchar(255)"`
	FileSizeBytes  int64        `json:"file_size_bytes"`
	EmbeddingModel string       `json:"embedding_model" gorm:"varchar(64)"`
	ChunkSize      int          `json:"chunk_size"`
	ChunkOverlap   int          `json:"chunk_overlap"`
	Status         UploadStatus `json:"status" gorm:"index"`
	Error          string       `json:"error,omitempty"`
}

func (s UploadStatus) String() string {
	if int(s) < 0 || int(s) >= len(uploadStatusNames) {
		return uploadStatusNames[UploadStatusPending]
	}
	return uploadStatusNames[s]
}

// ParseUploadStatus parses a status name into an UploadStatus.
func ParseUploadStatus(str string) (UploadStatus, error) {
	for i, name := range uploadStatusNames {
		if name == str {
			return UploadStatus(i), nil
		}
	}
	return UploadStatusPending, fmt.Errorf("invalid upload status: %s", str)
}

// MarshalJSON renders the status by name.
func (s UploadStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses the status from its name.
func (s *UploadStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	parsed, err := ParseUploadStatus(str)
	if err != nil {
		return err
	}

	*s = parsed
	return nil
}
