// Package backend is the HTTP client for the interview backend service that
// generates questions, scores answers and writes the final report.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/interview-practice/internal/schemas"
	"github.com/jonathan/interview-practice/internal/types"
)

// DefaultTimeout is the default HTTP request timeout. Question generation is
// LLM-backed, so it is generous.
const DefaultTimeout = 60 * time.Second

// DefaultBaseURL is where the backend listens in local development.
const DefaultBaseURL = "http://localhost:8000"

// Endpoint paths.
const (
	PathStart          = "/crew-interview-start"
	PathAnswer         = "/crew-interview-answer"
	PathEnd            = "/crew-interview-end"
	PathLogin          = "/login"
	PathSetRole        = "/set-role"
	PathSetDifficulty  = "/set-difficulty"
	PathDownloadReport = "/download-report"
	PathHealth         = "/health"
)

// Client talks JSON over HTTP to the interview backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Start begins a backend interview session and returns the opening question.
func (c *Client) Start(ctx context.Context, req StartRequest) (*StartResponse, error) {
	var resp StartResponse
	if err := c.post(ctx, PathStart, schemas.StartResponse, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Answer submits a user answer with the conversation so far.
func (c *Client) Answer(ctx context.Context, req AnswerRequest) (*AnswerResponse, error) {
	if req.ConversationHistory == nil {
		req.ConversationHistory = []types.HistoryEntry{}
	}
	var resp AnswerResponse
	if err := c.post(ctx, PathAnswer, schemas.AnswerResponse, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// End closes the backend session and returns its final report.
func (c *Client) End(ctx context.Context, req EndRequest) (*EndResponse, error) {
	var resp EndResponse
	if err := c.post(ctx, PathEnd, schemas.EndResponse, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login authenticates against the backend's demo login.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.post(ctx, PathLogin, "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetRole records the selected role with the backend.
func (c *Client) SetRole(ctx context.Context, role string) error {
	var resp AckResponse
	if err := c.post(ctx, PathSetRole, "", map[string]string{"role": role}, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &Error{Endpoint: PathSetRole, Message: "backend rejected role"}
	}
	return nil
}

// SetDifficulty records the selected difficulty with the backend.
func (c *Client) SetDifficulty(ctx context.Context, difficulty types.Difficulty) error {
	var resp AckResponse
	if err := c.post(ctx, PathSetDifficulty, "", map[string]string{"difficulty": string(difficulty)}, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &Error{Endpoint: PathSetDifficulty, Message: "backend rejected difficulty"}
	}
	return nil
}

// DownloadReport streams the generated PDF report named filename into w.
func (c *Client) DownloadReport(ctx context.Context, filename string, w io.Writer) (int64, error) {
	if filename == "" {
		return 0, &Error{Endpoint: PathDownloadReport, Message: "report filename is empty"}
	}
	endpoint := PathDownloadReport + "?filepath=" + url.QueryEscape(filename)

	resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, &Error{Endpoint: PathDownloadReport, Message: "failed to read report body", Cause: err}
	}
	return n, nil
}

// Health checks that the backend is reachable.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, PathHealth, nil)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	return nil
}

// post sends body as JSON, validates the reply against schemaName (when set) and decodes it into out.
func (c *Client) post(ctx context.Context, endpoint, schemaName string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &Error{Endpoint: endpoint, Message: "failed to encode request", Cause: err}
	}

	start := time.Now()
	resp, err := c.do(ctx, http.MethodPost, endpoint, payload)
	if err != nil {
		c.logger.Warn("backend request failed", "endpoint", endpoint, "error", err)
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: "failed to read response body", Cause: err}
	}
	c.logger.Debug("backend request completed",
		"endpoint", endpoint, "status", resp.StatusCode, "duration", time.Since(start))

	if schemaName != "" {
		if err := schemas.Validate(schemaName, data); err != nil {
			return &Error{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: "response does not match schema", Cause: err}
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// do executes a request and turns transport failures and non-2xx statuses into *Error.
// On success the caller owns the response body.
func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, &Error{Endpoint: endpoint, Message: "failed to create request", Cause: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Endpoint: endpoint, Message: "HTTP request failed", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		_ = resp.Body.Close()
		return nil, &Error{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))),
		}
	}
	return resp, nil
}
