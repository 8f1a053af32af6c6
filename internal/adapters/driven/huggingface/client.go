// Package huggingface is a minimal client for the Hugging Face Inference API.
// The embedding, extractive QA and generation adapters share it.
package huggingface

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

// Default configuration values.
const (
	DefaultBaseURL = "https://router.huggingface.co/hf-inference/models"
	DefaultTimeout = 120 * time.Second
)

// ErrModelLoading is returned when the model is still being loaded and
// WaitForModel was not requested.
var ErrModelLoading = errors.New("huggingface: model is loading")

// Config holds configuration for the client.
type Config struct {
	// APIKey is the Hugging Face access token.
	APIKey string

	// BaseURL is the models endpoint root (default: DefaultBaseURL).
	BaseURL string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// Client posts JSON payloads to hosted models.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// NewClient creates a client. An API key is required.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("huggingface: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}, nil
}

// Options are the inference options shared by every task.
type Options struct {
	WaitForModel bool `json:"wait_for_model,omitempty"`
	UseCache     bool `json:"use_cache"`
}

type errorResponse struct {
	Error         json.RawMessage `json:"error"`
	EstimatedTime float64         `json:"estimated_time,omitempty"`
}

// Post sends payload to model (optionally a task path such as
// "pipeline/feature-extraction") and decodes the response into out.
func (c *Client) Post(ctx context.Context, model, task string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("huggingface: marshal request: %w", err)
	}

	url := c.baseURL + "/" + model
	if task != "" {
		url += "/" + task
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("huggingface: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("huggingface: send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("huggingface: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return statusError(resp.StatusCode, raw)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("huggingface: decode response: %w", err)
	}
	return nil
}

func statusError(status int, raw []byte) error {
	var e errorResponse
	if json.Unmarshal(raw, &e) == nil && len(e.Error) > 0 {
		msg := strings.Trim(string(e.Error), `"`)
		if status == http.StatusServiceUnavailable && e.EstimatedTime > 0 {
			return fmt.Errorf("%w (ready in ~%.0fs): %s", ErrModelLoading, e.EstimatedTime, msg)
		}
		return fmt.Errorf("huggingface: status %d: %s", status, msg)
	}
	return fmt.Errorf("huggingface: status %d: %s", status, bytes.TrimSpace(raw))
}

// Ping checks that the model endpoint accepts the token.
func (c *Client) Ping(ctx context.Context, model string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+model, http.NoBody)
	if err != nil {
		return fmt.Errorf("huggingface: failed to create ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("huggingface: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("huggingface: token rejected (status %d)", resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusInternalServerError && resp.StatusCode != http.StatusServiceUnavailable {
		return fmt.Errorf("huggingface: API returned status %d", resp.StatusCode)
	}
	return nil
}
