package adminapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPConfig configures the HTTP backend client.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// HTTPClient talks to the live admin backend over REST.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient builds a client for the remote backend.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("adminapi: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

var (
	_ OrderClient    = (*HTTPClient)(nil)
	_ AnalysisClient = (*HTTPClient)(nil)
)

// ListRequests implements OrderClient.
// The path keeps the backend's "lastest" spelling, it is part of the API.
func (c *HTTPClient) ListRequests(ctx context.Context, page, limit int) (SubmissionPage, error) {
	var resp SubmissionPage
	path := fmt.Sprintf("/api/admin/lastestRequest?page=%d&limit=%d", page, limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return SubmissionPage{}, err
	}
	return resp, nil
}

// SetStatus implements OrderClient.
func (c *HTTPClient) SetStatus(ctx context.Context, orderID int64, status string) error {
	payload := map[string]string{"status": status}
	path := fmt.Sprintf("/api/admin/orders/%d/status", orderID)
	return c.do(ctx, http.MethodPost, path, payload, nil)
}

// StartAnalysis implements OrderClient.
func (c *HTTPClient) StartAnalysis(ctx context.Context, orderID int64) error {
	path := fmt.Sprintf("/api/admin/startAnalysing/%d", orderID)
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

// FetchAnalysis implements AnalysisClient. The backend wraps the report in a
// jsondata envelope; the returned bytes are the bare sections array.
func (c *HTTPClient) FetchAnalysis(ctx context.Context, requestID string) ([]byte, error) {
	var resp struct {
		JSONData struct {
			Sections json.RawMessage `json:"sections"`
		} `json:"jsondata"`
	}
	path := fmt.Sprintf("/api/admin/analysis/%s", requestID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.JSONData.Sections) == 0 {
		return nil, fmt.Errorf("adminapi: analysis %s has no sections", requestID)
	}
	return resp.JSONData.Sections, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any, target any) error {
	var reader *bytes.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("adminapi: encode payload: %w", err)
		}
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("adminapi: build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("adminapi: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("adminapi: remote error %d: %s", resp.StatusCode, buf.String())
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("adminapi: decode response: %w", err)
	}
	return nil
}
