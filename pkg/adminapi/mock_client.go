package adminapi

import (
	"context"
	"fmt"
	"sync"
)

// MockData seeds deterministic backend responses for tests or local demos.
type MockData struct {
	Submissions []Submission
	Analyses    map[string][]byte
}

// MockClient implements OrderClient and AnalysisClient using in-memory fixtures.
type MockClient struct {
	data MockData
	mu   sync.RWMutex
}

// NewMockClient builds a mock backend from the provided fixtures.
func NewMockClient(data MockData) *MockClient {
	if data.Analyses == nil {
		data.Analyses = map[string][]byte{}
	}
	return &MockClient{data: data}
}

var (
	_ OrderClient    = (*MockClient)(nil)
	_ AnalysisClient = (*MockClient)(nil)
)

// ListRequests pages through the seeded submissions.
func (c *MockClient) ListRequests(_ context.Context, page, limit int) (SubmissionPage, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	total := len(c.data.Submissions)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	out := SubmissionPage{
		Submissions: append([]Submission(nil), c.data.Submissions[start:end]...),
		Total:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  (total + limit - 1) / limit,
	}
	return out, nil
}

// SetStatus updates the seeded submission in place.
func (c *MockClient) SetStatus(_ context.Context, orderID int64, status string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.data.Submissions {
		if c.data.Submissions[i].ID == orderID {
			c.data.Submissions[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("adminapi: unknown order %d", orderID)
}

// StartAnalysis marks the seeded submission as analysing.
func (c *MockClient) StartAnalysis(ctx context.Context, orderID int64) error {
	return c.SetStatus(ctx, orderID, "analysing")
}

// FetchAnalysis returns the seeded document for the request.
func (c *MockClient) FetchAnalysis(_ context.Context, requestID string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.data.Analyses[requestID]
	if !ok {
		return nil, fmt.Errorf("adminapi: no analysis for request %s", requestID)
	}
	return append([]byte(nil), doc...), nil
}
