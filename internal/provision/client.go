package provision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vectorops/dbdock/internal/logger"
)

// DefaultTimeout bounds every call to the provisioning backend. Calls are
// single-attempt with no retry; a failed call surfaces to the caller.
const DefaultTimeout = 30 * time.Second

// Sentinel errors the service layer triages. ErrNotFound and ErrUnreachable
// on the delete path are downgraded to a soft delete instead of propagated.
var (
	ErrNotFound    = errors.New("resource not found")
	ErrUnreachable = errors.New("provisioning backend unreachable")
)

// Client is the interface to the provisioning backend.
type Client interface {
	// Deploy submits a provisioning request and returns the backend's
	// deployment identifier.
	Deploy(ctx context.Context, payload *Payload) (*DeployResult, error)

	// Delete requests removal of a provisioned container.
	Delete(ctx context.Context, payload *DeletePayload) (*DeleteResult, error)

	// ExecutionStatus fetches the raw status document for an execution.
	// The body is returned unparsed; the status package normalizes it.
	ExecutionStatus(ctx context.Context, executionID string) ([]byte, error)
}

// DeployResult is the backend's response to a deploy call.
type DeployResult struct {
	DeploymentID string `json:"deploymentId"`
	ID           string `json:"id"`
	ExecutionID  string `json:"executionId"`
}

// EffectiveID returns whichever identifier the backend populated.
func (r *DeployResult) EffectiveID() string {
	switch {
	case r.DeploymentID != "":
		return r.DeploymentID
	case r.ID != "":
		return r.ID
	default:
		return r.ExecutionID
	}
}

// DeleteResult is the backend's response to a delete call.
type DeleteResult struct {
	DeletionID     string `json:"deletionId"`
	ID             string `json:"id"`
	ExecutionID    string `json:"executionId"`
	Status         string `json:"status"`
	AdditionalInfo string `json:"additionalInfo"`
}

// EffectiveID returns whichever deletion identifier the backend populated.
func (r *DeleteResult) EffectiveID() string {
	switch {
	case r.DeletionID != "":
		return r.DeletionID
	case r.ID != "":
		return r.ID
	default:
		return r.ExecutionID
	}
}

// Options configures the HTTP client for the provisioning backend.
type Options struct {
	// DeployURL is the full URL of the deploy endpoint.
	DeployURL string
	// DeleteURL is the full URL of the delete endpoint.
	DeleteURL string
	// StatusBaseURL is the execution-status endpoint; the execution ID is
	// appended as a path segment.
	StatusBaseURL string
	// APIKey is sent as the x-api-key header on every call.
	APIKey string
	// Timeout overrides DefaultTimeout when positive.
	Timeout time.Duration
}

// HTTPClient implements Client against the backend's HTTP contract.
type HTTPClient struct {
	opts Options
	http *http.Client
}

// NewHTTPClient creates a backend client from the given options.
func NewHTTPClient(opts Options) (*HTTPClient, error) {
	if opts.DeployURL == "" || opts.DeleteURL == "" || opts.StatusBaseURL == "" {
		return nil, fmt.Errorf("deploy, delete, and status URLs are required")
	}
	if opts.APIKey == "" {
		return nil, fmt.Errorf("backend API key is required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		opts: opts,
		http: &http.Client{Timeout: timeout},
	}, nil
}

// Deploy implements Client.
func (c *HTTPClient) Deploy(ctx context.Context, payload *Payload) (*DeployResult, error) {
	body, status, err := c.do(ctx, http.MethodPost, c.opts.DeployURL, payload)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("deploy request failed: %d - %s", status, string(body))
	}

	var result DeployResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode deploy response: %w", err)
	}
	return &result, nil
}

// Delete implements Client.
func (c *HTTPClient) Delete(ctx context.Context, payload *DeletePayload) (*DeleteResult, error) {
	body, status, err := c.do(ctx, http.MethodDelete, c.opts.DeleteURL, payload)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, string(body))
	case status == http.StatusForbidden:
		return nil, fmt.Errorf("access denied: %s", string(body))
	case status >= 500:
		return nil, fmt.Errorf("backend server error: %d - %s", status, string(body))
	case status < 200 || status >= 300:
		return nil, fmt.Errorf("delete request failed: %d - %s", status, string(body))
	}

	var result DeleteResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode delete response: %w", err)
	}
	return &result, nil
}

// ExecutionStatus implements Client.
func (c *HTTPClient) ExecutionStatus(ctx context.Context, executionID string) ([]byte, error) {
	url := c.opts.StatusBaseURL + "/" + executionID
	body, status, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusNotFound:
		return nil, fmt.Errorf("%w: execution %s", ErrNotFound, executionID)
	case status < 200 || status >= 300:
		return nil, fmt.Errorf("status request failed: %d - %s", status, string(body))
	}
	return body, nil
}

// do sends a single request and returns the response body and status code.
// Transport-level failures are wrapped in ErrUnreachable.
func (c *HTTPClient) do(ctx context.Context, method, url string, payload interface{}) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to encode payload: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("x-api-key", c.opts.APIKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warnf("Failed to close response body: %v", cerr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}
