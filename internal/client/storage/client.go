package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/s21platform/messenger-service/internal/config"
)

// Client talks to the object store's sign endpoint. Signed URLs expire
// after the configured TTL and must never be persisted.
type Client struct {
	baseURL    string
	apiKey     string
	ttl        time.Duration
	httpClient *http.Client
}

func New(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.Storage.BaseURL,
		apiKey:  cfg.Storage.APIKey,
		ttl:     cfg.Storage.SignedURLTTL,
		httpClient: &http.Client{
			Timeout: cfg.Storage.Timeout,
		},
	}
}

func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

type signRequest struct {
	Path      string `json:"path"`
	ExpiresIn int64  `json:"expires_in"`
}

type signResponse struct {
	SignedURL string `json:"signed_url"`
	Error     string `json:"error,omitempty"`
}

func (c *Client) CreateSignedURL(ctx context.Context, path string) (string, error) {
	payload := signRequest{
		Path:      path,
		ExpiresIn: int64(c.ttl.Seconds()),
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/object/sign", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "apikey "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // .

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var response signResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if response.Error != "" {
		return "", fmt.Errorf("object storage error: %s", response.Error)
	}

	return response.SignedURL, nil
}
