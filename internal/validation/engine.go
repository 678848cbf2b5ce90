package validation

import (
	"fmt"

	"github.com/vectorops/dbdock/internal/types"
)

// MinPasswordLength is the shortest password the password-backed engines accept.
const MinPasswordLength = 8

// ValidateEngineRequirements checks the engine-specific credential and
// storage requirements of a create request. Errors are collected rather than
// short-circuited, mirroring ValidateName.
func ValidateEngineRequirements(req *types.CreateDatabaseRequest) []error {
	var errs []error

	switch req.Engine {
	case types.EnginePostgres:
		if len(req.DBPassword) < MinPasswordLength {
			errs = append(errs, fmt.Errorf("PostgreSQL password must be at least %d characters", MinPasswordLength))
		}
	case types.EngineWeaviate, types.EngineChroma:
		if len(req.DBPassword) < MinPasswordLength {
			errs = append(errs, fmt.Errorf("Password must be at least %d characters", MinPasswordLength))
		}
	case types.EnginePinecone:
		if req.APIKey == "" {
			errs = append(errs, fmt.Errorf("Pinecone API key is required"))
		}
		if req.Environment == "" {
			errs = append(errs, fmt.Errorf("Pinecone environment is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("Unsupported database engine: %s", req.Engine))
	}

	if req.StorageGB < types.MinStorageGB {
		errs = append(errs, fmt.Errorf("Storage must be at least %d GB", types.MinStorageGB))
	}

	return errs
}

// ErrorStrings flattens a collected error list into messages for the
// response body.
func ErrorStrings(errs []error) []string {
	if len(errs) == 0 {
		return nil
	}
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}
