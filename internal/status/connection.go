package status

import (
	"encoding/json"
	"fmt"

	"github.com/vectorops/dbdock/internal/types"
)

// Engine-specific connection defaults applied when the backend output omits
// a field.
const (
	defaultPostgresPort  = 5432
	defaultWeaviatePort  = 8080
	defaultChromaPort    = 8000
	defaultIndexDim      = 1536
	defaultIndexMetric   = "cosine"
	defaultWeaviateProto = "http"
)

// ConnectionInfo carries the engine-specific access details returned once
// provisioning succeeds. Only the fields for the record's engine are set.
// Secrets beyond what the backend itself returned are never added.
type ConnectionInfo struct {
	// Relational engines
	Host             string `json:"host,omitempty"`
	Port             int    `json:"port,omitempty"`
	Database         string `json:"database,omitempty"`
	Username         string `json:"username,omitempty"`
	ConnectionString string `json:"connectionString,omitempty"`

	// HTTP vector stores
	URL         string `json:"url,omitempty"`
	Scheme      string `json:"scheme,omitempty"`
	APIKey      string `json:"apiKey,omitempty"`
	APIEndpoint string `json:"apiEndpoint,omitempty"`

	// Managed index
	IndexName   string `json:"indexName,omitempty"`
	Environment string `json:"environment,omitempty"`
	IndexURL    string `json:"indexUrl,omitempty"`
	Dimension   int    `json:"dimension,omitempty"`
	Metric      string `json:"metric,omitempty"`
}

// backendOutput is the loose shape of the backend's `output` payload, with
// the observed fallback key aliases.
type backendOutput struct {
	Host        string `json:"host"`
	Endpoint    string `json:"endpoint"`
	Port        int    `json:"port"`
	Database    string `json:"database"`
	DBName      string `json:"dbName"`
	Username    string `json:"username"`
	User        string `json:"user"`
	URL         string `json:"url"`
	Scheme      string `json:"scheme"`
	APIKey      string `json:"apiKey"`
	IndexName   string `json:"indexName"`
	Environment string `json:"environment"`
	IndexURL    string `json:"indexUrl"`
	Dimension   int    `json:"dimension"`
	Metric      string `json:"metric"`
}

// ParseConnectionInfo extracts the engine-specific connection details from
// the backend's output payload. It is best effort: any parse failure yields
// nil rather than an error, because connection info must never fail an
// otherwise successful status report.
func ParseConnectionInfo(output string, engine types.Engine) *ConnectionInfo {
	if output == "" {
		return nil
	}

	var out backendOutput
	if err := json.Unmarshal([]byte(output), &out); err != nil {
		if err := json.Unmarshal(RepairJSON([]byte(output)), &out); err != nil {
			return nil
		}
	}

	switch engine {
	case types.EnginePostgres:
		return postgresConnectionInfo(&out)
	case types.EngineWeaviate:
		return weaviateConnectionInfo(&out)
	case types.EngineChroma:
		return chromaConnectionInfo(&out)
	case types.EnginePinecone:
		return pineconeConnectionInfo(&out)
	default:
		return nil
	}
}

func postgresConnectionInfo(out *backendOutput) *ConnectionInfo {
	info := &ConnectionInfo{
		Host:     firstNonEmpty(out.Host, out.Endpoint),
		Port:     out.Port,
		Database: firstNonEmpty(out.Database, out.DBName),
		Username: firstNonEmpty(out.Username, out.User),
	}
	if info.Port == 0 {
		info.Port = defaultPostgresPort
	}
	// The password is intentionally left out of the connection string.
	info.ConnectionString = fmt.Sprintf("postgresql://%s@%s:%d/%s",
		info.Username, info.Host, info.Port, info.Database)
	return info
}

func weaviateConnectionInfo(out *backendOutput) *ConnectionInfo {
	info := &ConnectionInfo{
		URL:    firstNonEmpty(out.URL, out.Endpoint),
		Host:   out.Host,
		Port:   out.Port,
		Scheme: out.Scheme,
		APIKey: out.APIKey,
	}
	if info.Port == 0 {
		info.Port = defaultWeaviatePort
	}
	if info.Scheme == "" {
		info.Scheme = defaultWeaviateProto
	}
	return info
}

func chromaConnectionInfo(out *backendOutput) *ConnectionInfo {
	info := &ConnectionInfo{
		URL:  firstNonEmpty(out.URL, out.Endpoint),
		Host: out.Host,
		Port: out.Port,
	}
	if info.Port == 0 {
		info.Port = defaultChromaPort
	}
	info.APIEndpoint = info.URL + "/api/v1"
	return info
}

func pineconeConnectionInfo(out *backendOutput) *ConnectionInfo {
	info := &ConnectionInfo{
		IndexName:   firstNonEmpty(out.IndexName, out.DBName),
		Environment: out.Environment,
		APIKey:      out.APIKey,
		IndexURL:    out.IndexURL,
		Dimension:   out.Dimension,
		Metric:      out.Metric,
	}
	if info.Dimension == 0 {
		info.Dimension = defaultIndexDim
	}
	if info.Metric == "" {
		info.Metric = defaultIndexMetric
	}
	return info
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
