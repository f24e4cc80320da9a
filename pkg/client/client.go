// Package client provides a Go client library for the CRVC resolve/verify API
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/legalaudit/crvc/internal/storage"
	"github.com/legalaudit/crvc/pkg/models"
)

// Client represents a CRVC API client
type Client struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	userAgent  string
}

// Config holds client configuration
type Config struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	UserAgent string
}

// NewClient creates a new CRVC API client with default settings
func NewClient(baseURL, apiKey string) *Client {
	return NewClientWithConfig(Config{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Timeout: 30 * time.Second,
	})
}

// NewClientWithConfig creates a new client with custom configuration
func NewClientWithConfig(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "crvc-go-client/1.0.0"
	}

	return &Client{
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// CitationInput pairs a raw citation string with an optional case name
// hint, matching internal/api/handlers.CitationInput.
type CitationInput struct {
	Text     string `json:"text"`
	CaseName string `json:"case_name,omitempty"`
}

// ResolveRequest is the body of POST /api/v1/resolve.
type ResolveRequest struct {
	Citations      []CitationInput `json:"citations"`
	FetchJudgments bool            `json:"fetch_judgments"`
}

// ResolveResponse is the body of a successful POST /api/v1/resolve.
type ResolveResponse struct {
	Resolutions []*models.Resolution `json:"resolutions"`
}

// Resolve resolves a batch of citations to candidate judgment URLs.
func (c *Client) Resolve(ctx context.Context, req ResolveRequest) (*ResolveResponse, error) {
	var result ResolveResponse
	if err := c.post(ctx, "/api/v1/resolve", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// VerifyRequest is the body of POST /api/v1/verify.
type VerifyRequest struct {
	ClaimText        string                  `json:"claim_text"`
	Judgment         *models.Judgment        `json:"judgment"`
	Citation         string                  `json:"citation"`
	ResolutionStatus models.ResolutionStatus `json:"resolution_status,omitempty"`
}

// Verify checks a textual claim against a judgment.
func (c *Client) Verify(ctx context.Context, req VerifyRequest) (*models.Verification, error) {
	var result models.Verification
	if err := c.post(ctx, "/api/v1/verify", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateJobRequest is the body of POST /api/v1/jobs.
type CreateJobRequest struct {
	Citations      []string `json:"citations"`
	FetchJudgments bool     `json:"fetch_judgments"`
}

// CreateJob enqueues an asynchronous batch resolve job and returns its
// record immediately; the actual resolution runs out of band.
func (c *Client) CreateJob(ctx context.Context, req CreateJobRequest) (*storage.Job, error) {
	var job storage.Job
	if err := c.postStatus(ctx, "/api/v1/jobs", req, &job, http.StatusCreated); err != nil {
		return nil, err
	}
	return &job, nil
}

// GetJob retrieves a previously created job by ID, including its
// Resolutions once the job has completed.
func (c *Client) GetJob(ctx context.Context, jobID string) (*storage.Job, error) {
	var job storage.Job
	if err := c.get(ctx, "/api/v1/jobs/"+jobID, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// HealthCheck checks if the API is healthy
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status: %d", resp.StatusCode)
	}

	return nil
}

func (c *Client) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.handleErrorResponse(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, endpoint string, body, out interface{}) error {
	return c.postStatus(ctx, endpoint, body, out, http.StatusOK)
}

func (c *Client) postStatus(ctx context.Context, endpoint string, body, out interface{}, wantStatus int) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return c.handleErrorResponse(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// setHeaders sets common headers for all requests
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}
}

// handleErrorResponse processes error responses from the API
func (c *Client) handleErrorResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}

	if err := json.Unmarshal(body, &errResp); err != nil {
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if errResp.Message != "" {
		return fmt.Errorf("API error (%d): %s", resp.StatusCode, errResp.Message)
	}

	if errResp.Error != "" {
		return fmt.Errorf("API error (%d): %s", resp.StatusCode, errResp.Error)
	}

	return fmt.Errorf("request failed with status %d", resp.StatusCode)
}
