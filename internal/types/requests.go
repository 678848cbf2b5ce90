package types

import (
	"fmt"
	"strings"
)

// MinStorageGB is the smallest storage allocation the backend will provision.
const MinStorageGB = 20

// CreateDatabaseRequest is the request body for provisioning a new database.
type CreateDatabaseRequest struct {
	Engine      Engine `json:"engine"`
	DBName      string `json:"dbName"`
	DBPassword  string `json:"dbPassword,omitempty"`
	StorageGB   int    `json:"storage"`
	APIKey      string `json:"apiKey,omitempty"`
	Environment string `json:"environment,omitempty"`
	Region      string `json:"region,omitempty"`
	UserID      string `json:"userId"`
	UserEmail   string `json:"userEmail"`
}

// ValidateRequired checks the fields every create request needs regardless
// of engine. Engine-specific rules live in the validation package.
func (r *CreateDatabaseRequest) ValidateRequired() error {
	if r.Engine == "" || r.DBName == "" || r.UserID == "" {
		return fmt.Errorf("engine, database name, and user ID are required")
	}
	if !strings.Contains(r.UserEmail, "@") {
		return fmt.Errorf("valid user email is required")
	}
	return nil
}

// DeleteDatabaseRequest is the request body for deleting a database.
type DeleteDatabaseRequest struct {
	DatabaseID    string `json:"databaseId"`
	ContainerName string `json:"containerName"`
	UserID        string `json:"userId"`
	Engine        Engine `json:"engine,omitempty"`
}

// Validate checks that the delete request names a record, a container, and
// an owner. Container-name format is checked by the validation package.
func (r *DeleteDatabaseRequest) Validate() error {
	if r.DatabaseID == "" {
		return fmt.Errorf("missing required field: databaseId")
	}
	if r.ContainerName == "" {
		return fmt.Errorf("missing required field: containerName")
	}
	if r.UserID == "" {
		return fmt.Errorf("missing required field: userId")
	}
	return nil
}

// StatusCheckRequest is the request body for polling a provisioning execution.
type StatusCheckRequest struct {
	ExecutionID string `json:"executionId"`
	DatabaseID  string `json:"databaseId,omitempty"`
	UserID      string `json:"userId"`
	Engine      Engine `json:"engine,omitempty"`
}

// Validate checks the status request identifies an execution and a caller.
func (r *StatusCheckRequest) Validate() error {
	if r.ExecutionID == "" {
		return fmt.Errorf("execution ID is required")
	}
	if r.UserID == "" {
		return fmt.Errorf("user ID is required")
	}
	return nil
}

// RegisterUploadRequest is the request body for registering PDF ingestion
// jobs against a provisioned database.
type RegisterUploadRequest struct {
	DatabaseID     uint         `json:"databaseId"`
	UserID         string       `json:"userId"`
	EmbeddingModel string       `json:"embeddingModel"`
	ChunkSize      int          `json:"chunkSize"`
	ChunkOverlap   int          `json:"chunkOverlap"`
	Files          []UploadFile `json:"files"`
}

// UploadFile describes a single PDF submitted for ingestion.
type UploadFile struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"sizeBytes"`
}

// MaxUploadFiles bounds how many PDFs can be registered in one request.
const MaxUploadFiles = 10

// Chunking bounds for PDF ingestion.
const (
	MinChunkSize = 100
	MaxChunkSize = 8000
)

// EmbeddingModels lists the embedding models available for PDF ingestion.
var EmbeddingModels = []string{
	"amazon.titan-embed-text-v1",
	"amazon.titan-embed-text-v2",
	"cohere.embed-english-v3",
	"cohere.embed-multilingual-v3",
}

// Validate checks the upload registration request.
func (r *RegisterUploadRequest) Validate() error {
	if r.DatabaseID == 0 {
		return fmt.Errorf("databaseId is required")
	}
	if r.UserID == "" {
		return fmt.Errorf("userId is required")
	}
	if len(r.Files) == 0 {
		return fmt.Errorf("at least one file is required")
	}
	if len(r.Files) > MaxUploadFiles {
		return fmt.Errorf("maximum %d files allowed per upload", MaxUploadFiles)
	}
	for _, f := range r.Files {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".pdf") {
			return fmt.Errorf("only PDF files are supported: %s", f.Name)
		}
	}
	if r.ChunkSize < MinChunkSize || r.ChunkSize > MaxChunkSize {
		return fmt.Errorf("chunk size must be between %d and %d", MinChunkSize, MaxChunkSize)
	}
	if r.ChunkOverlap < 0 || r.ChunkOverlap >= r.ChunkSize {
		return fmt.Errorf("chunk overlap must be less than chunk size")
	}
	if !isSupportedEmbeddingModel(r.EmbeddingModel) {
		return fmt.Errorf("unsupported embedding model: %s", r.EmbeddingModel)
	}
	return nil
}

func isSupportedEmbeddingModel(model string) bool {
	for _, m := range EmbeddingModels {
		if m == model {
			return true
		}
	}
	return false
}
