package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/billdhq/admin-console/pkg/adminapi"
)

// Status is an order's position in the review pipeline.
type Status string

const (
	StatusRequested Status = "requested"
	StatusApproving Status = "approving"
	StatusScraping  Status = "scraping"
	StatusScraped   Status = "scraped"
	StatusAnalysing Status = "analysing"
	StatusAnalysed  Status = "analysed"
)

// ParseStatus maps a raw status string onto the known set, falling back to
// requested for anything unrecognized.
func ParseStatus(raw string) Status {
	switch s := Status(strings.ToLower(raw)); s {
	case StatusRequested, StatusApproving, StatusScraping, StatusScraped, StatusAnalysing, StatusAnalysed:
		return s
	default:
		return StatusRequested
	}
}

// StatusInfo carries display metadata for a status chip.
type StatusInfo struct {
	Label string
	Color string
}

var statusInfo = map[Status]StatusInfo{
	StatusRequested: {Label: "Requested", Color: "warning"},
	StatusApproving: {Label: "Approving", Color: "info"},
	StatusScraping:  {Label: "Scraping", Color: "primary"},
	StatusScraped:   {Label: "Scraped", Color: "info"},
	StatusAnalysing: {Label: "Analysing", Color: "success"},
	StatusAnalysed:  {Label: "Analysed", Color: "primary"},
}

// Info returns the chip metadata for the status.
func (s Status) Info() StatusInfo {
	if info, ok := statusInfo[s]; ok {
		return info
	}
	return StatusInfo{Label: "Unknown", Color: "default"}
}

// Actionable reports whether the row opens the transition modal.
func (s Status) Actionable() bool {
	return s == StatusRequested || s == StatusScraped || s == StatusAnalysing
}

// Action names the modal button shown for the status, empty when none.
func (s Status) Action() string {
	switch s {
	case StatusRequested:
		return "Approve"
	case StatusScraped:
		return "Analyse"
	case StatusAnalysing:
		return "Review"
	default:
		return ""
	}
}

// Order is the display model for one analysis request.
type Order struct {
	ID        string
	Numeric   int64
	Customer  string
	Business  string
	CreatedAt time.Time
	Status    Status
}

// Page is one page of the order list.
type Page struct {
	Orders     []Order
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// FromSubmission maps a raw remote submission record into the display
// model. Unparseable timestamps are left zero rather than failing the row.
func FromSubmission(sub adminapi.Submission) Order {
	created, err := time.Parse(time.RFC3339, sub.CreatedAt)
	if err != nil {
		created = time.Time{}
	}
	return Order{
		ID:        fmt.Sprintf("REQ-%d", sub.ID),
		Numeric:   sub.ID,
		Customer:  sub.Customer,
		Business:  sub.BusinessURL,
		CreatedAt: created,
		Status:    ParseStatus(sub.Status),
	}
}
