package types

// Slug labels the outcome class of an API response.
type Slug string

const (
	SuccessSlug      Slug = "success"
	ErrorSlug        Slug = "error"
	InvalidInputSlug Slug = "invalid-input"
	NotFoundSlug     Slug = "not-found"
	ServerErrorSlug  Slug = "server-error"
)

// ErrorResponse is the envelope returned on request failures. Errors carries
// the full list of validation problems so the caller can display every
// problem at once.
type ErrorResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// ErrInvalidInput builds a 400-class error response.
func ErrInvalidInput(msg string, errs ...string) ErrorResponse {
	return ErrorResponse{Message: msg, Errors: errs}
}

// CreateDatabaseResponse is returned once the provisioning backend accepts
// a deploy request. ExecutionID and DeploymentID carry the same value; both
// names are kept for wire compatibility with older clients.
type CreateDatabaseResponse struct {
	Message                 string `json:"message"`
	ExecutionID             string `json:"executionId"`
	DeploymentID            string `json:"deploymentId"`
	DatabaseEngine          Engine `json:"databaseEngine"`
	DatabaseName            string `json:"databaseName"`
	ContainerName           string `json:"containerName"`
	EstimatedCompletionTime string `json:"estimatedCompletionTime"`
}

// DeleteDatabaseResponse is returned for both confirmed deletions and the
// degraded soft-delete path taken when the backend is unreachable or the
// container is already gone.
type DeleteDatabaseResponse struct {
	Success               bool   `json:"success"`
	Message               string `json:"message"`
	DeletionID            string `json:"deletionId"`
	ContainerName         string `json:"containerName"`
	Status                string `json:"status"`
	EstimatedDeletionTime string `json:"estimatedDeletionTime,omitempty"`
	SoftDelete            bool   `json:"softDelete,omitempty"`
	Warning               string `json:"warning,omitempty"`
}

// PaginationResponse carries paging metadata for list endpoints.
type PaginationResponse struct {
	Total  int `json:"total"`
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ListResponse is a generic response structure for list endpoints.
type ListResponse[T any] struct {
	Rows       []T                `json:"rows"`
	Pagination PaginationResponse `json:"pagination"`
}
