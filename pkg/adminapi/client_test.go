package adminapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPClientListRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admin/lastestRequest" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Fatalf("expected page=2, got %s", got)
		}
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Fatalf("expected limit=5, got %s", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Fatalf("expected auth header, got %s", got)
		}
		_ = json.NewEncoder(w).Encode(SubmissionPage{
			Submissions: []Submission{{ID: 11, BusinessURL: "https://acme.example", Status: "requested"}},
			Total:       21,
			Page:        2,
			Limit:       5,
			TotalPages:  5,
		})
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL, APIKey: "secret"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	page, err := client.ListRequests(context.Background(), 2, 5)
	if err != nil {
		t.Fatalf("list requests: %v", err)
	}
	if len(page.Submissions) != 1 || page.Submissions[0].ID != 11 {
		t.Fatalf("unexpected page %+v", page)
	}
	if page.TotalPages != 5 {
		t.Fatalf("expected 5 total pages, got %d", page.TotalPages)
	}
}

func TestHTTPClientSetStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method %s", r.Method)
		}
		if r.URL.Path != "/api/admin/orders/7/status" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload["status"] != "scraping" {
			t.Fatalf("unexpected payload %+v", payload)
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := client.SetStatus(context.Background(), 7, "scraping"); err != nil {
		t.Fatalf("set status: %v", err)
	}
}

func TestHTTPClientStartAnalysis(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admin/startAnalysing/3" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := client.StartAnalysis(context.Background(), 3); err != nil {
		t.Fatalf("start analysis: %v", err)
	}
}

func TestHTTPClientFetchAnalysis(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admin/analysis/42" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"jsondata": {"sections": [{"id": "a", "type": "section_normal"}]}}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	raw, err := client.FetchAnalysis(context.Background(), "42")
	if err != nil {
		t.Fatalf("fetch analysis: %v", err)
	}
	var sections []map[string]any
	if err := json.Unmarshal(raw, &sections); err != nil {
		t.Fatalf("sections are not a bare array: %v", err)
	}
	if len(sections) != 1 || sections[0]["id"] != "a" {
		t.Fatalf("unexpected sections %+v", sections)
	}
}

func TestHTTPClientFetchAnalysisMissingSections(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsondata": {}}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.FetchAnalysis(context.Background(), "42"); err == nil {
		t.Fatalf("expected error for missing sections")
	}
}

func TestHTTPClientRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.ListRequests(context.Background(), 1, 10); err == nil {
		t.Fatalf("expected remote error")
	}
}

func TestNewHTTPClientRequiresBaseURL(t *testing.T) {
	if _, err := NewHTTPClient(HTTPConfig{}); err == nil {
		t.Fatalf("expected error for missing base url")
	}
}

func TestMockClientPaging(t *testing.T) {
	client := NewMockClient(MockData{
		Submissions: []Submission{{ID: 1}, {ID: 2}, {ID: 3}},
	})
	page, err := client.ListRequests(context.Background(), 2, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Submissions) != 1 || page.Submissions[0].ID != 3 {
		t.Fatalf("unexpected page %+v", page)
	}
	if page.TotalPages != 2 {
		t.Fatalf("expected 2 total pages, got %d", page.TotalPages)
	}
}

func TestMockClientStatusLifecycle(t *testing.T) {
	client := NewMockClient(MockData{Submissions: []Submission{{ID: 1, Status: "requested"}}})
	if err := client.SetStatus(context.Background(), 1, "scraping"); err != nil {
		t.Fatalf("set status: %v", err)
	}
	if err := client.StartAnalysis(context.Background(), 1); err != nil {
		t.Fatalf("start analysis: %v", err)
	}
	page, _ := client.ListRequests(context.Background(), 1, 10)
	if page.Submissions[0].Status != "analysing" {
		t.Fatalf("unexpected status %s", page.Submissions[0].Status)
	}
	if err := client.SetStatus(context.Background(), 99, "x"); err == nil {
		t.Fatalf("expected error for unknown order")
	}
}
