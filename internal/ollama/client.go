// Package ollama implements the HTTP client for the external Ollama
// language-model service. The service is opaque to the rest of the system;
// only prompt forwarding and a liveness probe are exposed.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is used when no OLLAMA_HOST is configured.
	DefaultBaseURL = "http://localhost:11434"
	// DefaultModel matches the original deployment default.
	DefaultModel = "deepseek-coder:r1"
)

// ServiceError reports that the external model service failed or was
// unreachable. Timeout distinguishes deadline expiry from other failures.
type ServiceError struct {
	Timeout bool
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("ollama service timeout: %v", e.Err)
	}
	return fmt.Sprintf("ollama service error: %v", e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Client talks to an Ollama-compatible server over HTTP.
type Client struct {
	baseURL string
	model   string
	httpc   *http.Client
}

// NewClient creates a Client. Empty arguments fall back to defaults.
func NewClient(baseURL, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// Generate sends a single non-streaming prompt and returns the completion.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{Model: c.model, Prompt: prompt, Stream: false})
	if err != nil {
		return "", fmt.Errorf("encoding generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", wrapTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &ServiceError{Err: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))}
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", &ServiceError{Err: fmt.Errorf("decoding response: %w", err)}
	}
	if decoded.Error != "" {
		return "", &ServiceError{Err: errors.New(decoded.Error)}
	}
	return decoded.Response, nil
}

// Health probes the server's tag listing endpoint as a liveness check.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("building health request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return wrapTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &ServiceError{Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	return nil
}

// wrapTransportError classifies a round-trip failure as timeout or not.
func wrapTransportError(err error) error {
	var netErr interface{ Timeout() bool }
	timeout := errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout())
	return &ServiceError{Timeout: timeout, Err: err}
}
