// Package types provides type definitions for the application
package types

import (
	"fmt"
)

// Engine identifies the database or vector-store technology backing a
// provisioned container.
type Engine string

const (
	// EnginePostgres is a managed PostgreSQL container
	EnginePostgres Engine = "Postgres"
	// EngineWeaviate is a managed Weaviate vector store
	EngineWeaviate Engine = "Weaviate"
	// EngineChroma is a managed Chroma vector store
	EngineChroma Engine = "Chroma"
	// EnginePinecone is a managed Pinecone index
	EnginePinecone Engine = "Pinecone"
)

// SupportedEngines lists every engine the provisioning backend accepts.
var SupportedEngines = []Engine{EnginePostgres, EngineWeaviate, EngineChroma, EnginePinecone}

// IsValid returns whether the engine is one of the supported engines.
func (e Engine) IsValid() bool {
	switch e {
	case EnginePostgres, EngineWeaviate, EngineChroma, EnginePinecone:
		return true
	default:
		return false
	}
}

// ParseEngine parses a string into an Engine.
func ParseEngine(str string) (Engine, error) {
	e := Engine(str)
	if !e.IsValid() {
		return "", fmt.Errorf("invalid engine: %s", str)
	}
	return e, nil
}

// BackendType returns the lowercase type tag the provisioning backend expects.
func (e Engine) BackendType() string {
	switch e {
	case EnginePostgres:
		return "postgres"
	case EngineWeaviate:
		return "weaviate"
	case EngineChroma:
		return "chroma"
	case EnginePinecone:
		return "pinecone"
	default:
		return ""
	}
}

// Prefix returns the short resource-name prefix for the engine.
func (e Engine) Prefix() string {
	switch e {
	case EnginePostgres:
		return "pg"
	case EngineWeaviate:
		return "wv"
	case EngineChroma:
		return "ch"
	case EnginePinecone:
		return "pc"
	default:
		return "db"
	}
}

// ExpectedProvisionMinutes returns the expected end-to-end provisioning
// duration for the engine. Used to estimate progress and remaining time
// while an execution is running.
func (e Engine) ExpectedProvisionMinutes() int {
	switch e {
	case EnginePostgres:
		return 8
	case EngineWeaviate, EngineChroma:
		return 4
	case EnginePinecone:
		return 2
	default:
		return 8
	}
}

// EstimatedCompletionTime returns the human-readable provisioning estimate
// reported back to the caller on create.
func (e Engine) EstimatedCompletionTime() string {
	switch e {
	case EnginePostgres:
		return "3-5 minutes"
	case EngineWeaviate, EngineChroma:
		return "2-4 minutes"
	case EnginePinecone:
		return "1-2 minutes"
	default:
		return "3-5 minutes"
	}
}

// EstimatedDeletionTime returns the human-readable deletion estimate
// reported back to the caller on delete.
func (e Engine) EstimatedDeletionTime() string {
	switch e {
	case EnginePostgres:
		return "2-3 minutes"
	case EngineWeaviate, EngineChroma:
		return "1-2 minutes"
	case EnginePinecone:
		return "30-60 seconds"
	default:
		return "1-3 minutes"
	}
}

// RequiresPassword returns whether the engine needs a database password.
// Pinecone authenticates with an API key instead.
func (e Engine) RequiresPassword() bool {
	return e != EnginePinecone
}
