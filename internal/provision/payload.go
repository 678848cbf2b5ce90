// Package provision builds deploy payloads for the provisioning backend
// and owns the HTTP client that talks to it.
package provision

import (
	"fmt"

	"github.com/vectorops/dbdock/internal/types"
	"github.com/vectorops/dbdock/internal/validation"
)

// defaultUsername is the administrative account the backend creates inside
// every provisioned container.
const defaultUsername = "admin"

// Payload is the deploy request shape the backend expects. Engine-specific
// fields are tagged omitempty so a Pinecone payload never carries Postgres
// keys and vice versa.
type Payload struct {
	DatabaseType   string   `json:"databaseType"`
	ContainerName  string   `json:"containerName"`
	Username       string   `json:"username"`
	Password       string   `json:"password"`
	Subnets        []string `json:"subnets"`
	SecurityGroups []string `json:"securityGroups"`

	// Pinecone only
	PineconeEnvironment string `json:"pineconeEnvironment,omitempty"`
	PineconeAPIKey      string `json:"pineconeApiKey,omitempty"`
}

// Placement carries the fixed network-placement constants the backend
// requires on every deploy regardless of engine.
type Placement struct {
	Subnets        []string
	SecurityGroups []string
}

// BuildPayload composes a validated create request into the deploy payload
// for its engine. It fails when the engine has no backend type tag.
func BuildPayload(req *types.CreateDatabaseRequest, placement Placement) (*Payload, error) {
	backendType := req.Engine.BackendType()
	if backendType == "" {
		return nil, fmt.Errorf("unsupported engine: %s", req.Engine)
	}

	// DeriveResourceName truncates well below the backend's 63-char naming
	// ceiling; inbound container names on the delete path are checked
	// against it by validation.ValidateContainerName.
	containerName := validation.DeriveResourceName(req.Engine, req.DBName, req.UserID)

	payload := &Payload{
		DatabaseType:   backendType,
		ContainerName:  containerName,
		Username:       defaultUsername,
		Subnets:        placement.Subnets,
		SecurityGroups: placement.SecurityGroups,
	}

	if req.Engine == types.EnginePinecone {
		// Pinecone has no database password; the API key stands in for it.
		payload.Password = req.APIKey
		payload.PineconeEnvironment = req.Environment
		payload.PineconeAPIKey = req.APIKey
	} else {
		payload.Password = req.DBPassword
	}

	return payload, nil
}

// DeletePayload is the request shape for the backend's delete endpoint.
type DeletePayload struct {
	ContainerName string `json:"containerName"`
	UserID        string `json:"userId"`
	DatabaseID    string `json:"databaseId"`
	Engine        string `json:"engine,omitempty"`
}

// BuildDeletePayload composes a delete request into the backend's delete
// payload. The engine tag is lowercased and omitted entirely when unknown.
func BuildDeletePayload(req *types.DeleteDatabaseRequest) *DeletePayload {
	payload := &DeletePayload{
		ContainerName: req.ContainerName,
		UserID:        req.UserID,
		DatabaseID:    req.DatabaseID,
	}
	if req.Engine != "" {
		payload.Engine = req.Engine.BackendType()
	}
	return payload
}
