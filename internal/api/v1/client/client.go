// Package client provides a typed client for the dbdock API
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/vectorops/dbdock/internal/api/v1/routes"
	"github.com/vectorops/dbdock/internal/db/models"
	"github.com/vectorops/dbdock/internal/status"
	"github.com/vectorops/dbdock/internal/types"
)

// DefaultTimeout is the default timeout for API requests
const DefaultTimeout = 30 * time.Second

// Client defines the interface for interacting with the dbdock API
type Client interface {
	// Database methods
	CreateDatabase(ctx context.Context, req types.CreateDatabaseRequest) (*types.CreateDatabaseResponse, error)
	DeleteDatabase(ctx context.Context, req types.DeleteDatabaseRequest) (*types.DeleteDatabaseResponse, error)
	CheckDatabaseStatus(ctx context.Context, req types.StatusCheckRequest) (*status.Report, error)
	ListDatabases(ctx context.Context, userID string, limit, offset int) (*types.ListResponse[models.Database], error)
	GetDatabase(ctx context.Context, userID string, id uint) (*models.Database, error)

	// Upload methods
	RegisterUploads(ctx context.Context, req types.RegisterUploadRequest) (*types.ListResponse[models.Upload], error)
	ListUploads(ctx context.Context, userID string, limit, offset int) (*types.ListResponse[models.Upload], error)

	// Health check
	HealthCheck(ctx context.Context) (map[string]string, error)
}

// Options contains configuration options for the API client
type Options struct {
	// BaseURL is the base URL of the API
	BaseURL string

	// AuthToken is sent as the bearer token on every request
	AuthToken string

	// Timeout is the request timeout
	Timeout time.Duration
}

// DefaultOptions returns the default client options
func DefaultOptions() *Options {
	return &Options{
		BaseURL: routes.DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// APIClient implements the Client interface
type APIClient struct {
	baseURL   string
	authToken string
	timeout   time.Duration
}

// NewClient creates a new API client with the given options
func NewClient(opts *Options) (Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &APIClient{
		baseURL:   opts.BaseURL,
		authToken: opts.AuthToken,
		timeout:   timeout,
	}, nil
}

// createAgent creates a new Fiber Agent for the given method and endpoint
func (c *APIClient) createAgent(ctx context.Context, method, endpoint string, body interface{}) (*fiber.Agent, error) {
	fullURL := c.baseURL + endpoint

	var agent *fiber.Agent
	switch method {
	case http.MethodGet:
		agent = fiber.Get(fullURL)
	case http.MethodPost:
		agent = fiber.Post(fullURL)
	case http.MethodDelete:
		agent = fiber.Delete(fullURL)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}

	// Set timeout from context or client default
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	} else {
		agent.Timeout(c.timeout)
	}

	agent.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if c.authToken != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+c.authToken)
	}

	if body != nil {
		agent.JSON(body)
	}

	return agent, nil
}

// executeRequest creates an agent, sends the request, and decodes the response
func (c *APIClient) executeRequest(ctx context.Context, method, endpoint string, body, response interface{}) error {
	agent, err := c.createAgent(ctx, method, endpoint, body)
	if err != nil {
		return err
	}

	statusCode, respBody, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("error sending request: %w", errs[0])
	}

	if statusCode < 200 || statusCode >= 300 {
		var errResp types.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			return &fiber.Error{Code: statusCode, Message: errResp.Message}
		}
		return &fiber.Error{Code: statusCode, Message: "unknown error"}
	}

	if response != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, response); err != nil {
			return fmt.Errorf("error decoding response: %w", err)
		}
	}

	return nil
}

// CreateDatabase provisions a new database
func (c *APIClient) CreateDatabase(ctx context.Context, req types.CreateDatabaseRequest) (*types.CreateDatabaseResponse, error) {
	var response types.CreateDatabaseResponse
	if err := c.executeRequest(ctx, http.MethodPost, routes.DatabasesPath, req, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// DeleteDatabase deletes a database
func (c *APIClient) DeleteDatabase(ctx context.Context, req types.DeleteDatabaseRequest) (*types.DeleteDatabaseResponse, error) {
	var response types.DeleteDatabaseResponse
	if err := c.executeRequest(ctx, http.MethodDelete, routes.DatabasesPath, req, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// CheckDatabaseStatus polls a provisioning execution
func (c *APIClient) CheckDatabaseStatus(ctx context.Context, req types.StatusCheckRequest) (*status.Report, error) {
	var response status.Report
	if err := c.executeRequest(ctx, http.MethodPost, routes.DatabaseStatusPath, req, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// ListDatabases lists the user's database records
func (c *APIClient) ListDatabases(ctx context.Context, userID string, limit, offset int) (*types.ListResponse[models.Database], error) {
	endpoint := routes.DatabasesPath + "?" + listQuery(userID, limit, offset)
	var response types.ListResponse[models.Database]
	if err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// GetDatabase fetches a single database record
func (c *APIClient) GetDatabase(ctx context.Context, userID string, id uint) (*models.Database, error) {
	endpoint := fmt.Sprintf("%s/%d?userId=%s", routes.DatabasesPath, id, url.QueryEscape(userID))
	var response models.Database
	if err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// RegisterUploads registers PDF ingestion jobs
func (c *APIClient) RegisterUploads(ctx context.Context, req types.RegisterUploadRequest) (*types.ListResponse[models.Upload], error) {
	var response types.ListResponse[models.Upload]
	if err := c.executeRequest(ctx, http.MethodPost, routes.UploadsPath, req, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// ListUploads lists the user's ingestion jobs
func (c *APIClient) ListUploads(ctx context.Context, userID string, limit, offset int) (*types.ListResponse[models.Upload], error) {
	endpoint := routes.UploadsPath + "?" + listQuery(userID, limit, offset)
	var response types.ListResponse[models.Upload]
	if err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// HealthCheck verifies the API server is reachable
func (c *APIClient) HealthCheck(ctx context.Context) (map[string]string, error) {
	var response map[string]string
	if err := c.executeRequest(ctx, http.MethodGet, "/health", nil, &response); err != nil {
		return nil, err
	}
	return response, nil
}

func listQuery(userID string, limit, offset int) string {
	q := url.Values{}
	q.Set("userId", userID)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	return q.Encode()
}
