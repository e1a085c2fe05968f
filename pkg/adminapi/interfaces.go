// Package adminapi describes the remote admin backend that stores
// submitted analysis orders and their generated reports.
package adminapi

import "context"

// Submission is one analysis order as stored by the backend.
type Submission struct {
	ID          int64  `json:"id"`
	BusinessURL string `json:"businessUrl"`
	Customer    string `json:"customer"`
	CreatedAt   string `json:"createdAt"`
	Status      string `json:"status"`
}

// SubmissionPage is one page of submissions.
type SubmissionPage struct {
	Submissions []Submission `json:"submissions"`
	Total       int          `json:"total"`
	Page        int          `json:"page"`
	Limit       int          `json:"limit"`
	TotalPages  int          `json:"totalPages"`
}

// OrderClient exposes the order lifecycle endpoints of the backend.
type OrderClient interface {
	ListRequests(ctx context.Context, page, limit int) (SubmissionPage, error)
	SetStatus(ctx context.Context, orderID int64, status string) error
	StartAnalysis(ctx context.Context, orderID int64) error
}

// AnalysisClient fetches the raw analysis document for a request.
type AnalysisClient interface {
	FetchAnalysis(ctx context.Context, requestID string) ([]byte, error)
}
