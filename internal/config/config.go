// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vectorops/dbdock/internal/constants"
	"github.com/vectorops/dbdock/internal/provision"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultServerPort = "8080"
	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBUser     = "postgres"
	DefaultDBPassword = "postgres"
	DefaultDBName     = "dbdock"
)

// Config holds the fully resolved application configuration. It is built
// once at process start and injected into the components that need it;
// nothing reads the environment after startup.
type Config struct {
	ServerPort string

	Backend   provision.Options
	Placement provision.Placement

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
}

// Load resolves the configuration from the environment. The backend
// endpoints and API key have no sane defaults and must be present.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort: GetEnv(constants.EnvServerPort, DefaultServerPort),
		Backend: provision.Options{
			DeployURL:     os.Getenv(constants.EnvDeployURL),
			DeleteURL:     os.Getenv(constants.EnvDeleteURL),
			StatusBaseURL: os.Getenv(constants.EnvStatusURL),
			APIKey:        os.Getenv(constants.EnvBackendAPIKey),
		},
		Placement: provision.Placement{
			Subnets:        splitList(os.Getenv(constants.EnvSubnets)),
			SecurityGroups: splitList(os.Getenv(constants.EnvSecurityGroups)),
		},
		DBHost:     GetEnv(constants.EnvDBHost, DefaultDBHost),
		DBUser:     GetEnv(constants.EnvDBUser, DefaultDBUser),
		DBPassword: GetEnv(constants.EnvDBPassword, DefaultDBPassword),
		DBName:     GetEnv(constants.EnvDBName, DefaultDBName),
		DBSSLMode:  GetEnv(constants.EnvDBSSLMode, "disable"),
	}

	port, err := strconv.Atoi(GetEnv(constants.EnvDBPort, strconv.Itoa(DefaultDBPort)))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", constants.EnvDBPort, err)
	}
	cfg.DBPort = port

	if cfg.Backend.APIKey == "" {
		return nil, fmt.Errorf("%s environment variable is not set", constants.EnvBackendAPIKey)
	}
	if cfg.Backend.DeployURL == "" || cfg.Backend.DeleteURL == "" || cfg.Backend.StatusBaseURL == "" {
		return nil, fmt.Errorf("backend endpoint URLs are not fully configured")
	}

	return cfg, nil
}

// GetEnv retrieves the value of an environment variable with a fallback
// value if not set.
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
