// Package constants defines shared constant values for the application
package constants

// Environment variable names used across the application.
const (
	// EnvServerPort is the port the API server listens on
	EnvServerPort = "DBDOCK_PORT"

	// EnvDeployURL is the provisioning backend's deploy endpoint
	EnvDeployURL = "DATABASE_API_DEPLOY_URL"
	// EnvDeleteURL is the provisioning backend's delete endpoint
	EnvDeleteURL = "DATABASE_API_DELETE_URL"
	// EnvStatusURL is the provisioning backend's execution-status endpoint
	EnvStatusURL = "DATABASE_API_STATUS_URL"
	// EnvBackendAPIKey authenticates calls to the provisioning backend
	EnvBackendAPIKey = "DATABASE_API_KEY"

	// EnvSubnets is a comma-separated list of subnet IDs attached to every
	// deploy payload
	EnvSubnets = "DATABASE_API_SUBNETS"
	// EnvSecurityGroups is a comma-separated list of security-group IDs
	// attached to every deploy payload
	EnvSecurityGroups = "DATABASE_API_SECURITY_GROUPS"

	// Database connection settings
	EnvDBHost     = "DB_HOST"
	EnvDBPort     = "DB_PORT"
	EnvDBUser     = "DB_USER"
	EnvDBPassword = "DB_PASSWORD"
	EnvDBName     = "DB_NAME"
	EnvDBSSLMode  = "DB_SSL_MODE"
)
