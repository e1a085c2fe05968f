package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/billdhq/admin-console/pkg/adminapi"
)

var (
	errMissingClient = errors.New("orders: admin API client not configured")
	errInvalidOrder  = errors.New("orders: order id must be positive")
)

// Telemetry records order events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

// RefreshHook notifies transports that the order list changed.
type RefreshHook interface {
	OrdersChanged(ctx context.Context, event OrderEvent) error
}

type noopRefreshHook struct{}

func (noopRefreshHook) OrdersChanged(context.Context, OrderEvent) error { return nil }

// OrderEvent describes a change transports might care about.
type OrderEvent struct {
	Reason  string `json:"reason"`
	OrderID int64  `json:"order_id,omitempty"`
	Page    int    `json:"page,omitempty"`
}

// Options configures the order service. Collaborators are interfaces so
// tests and the example app can swap in fakes.
type Options struct {
	Client    adminapi.OrderClient
	Hook      RefreshHook
	Telemetry Telemetry
}

// Service proxies the remote order API and fans change events out to the
// refresh hook.
type Service struct {
	opts Options
}

// NewService builds a service with safe defaults.
func NewService(opts Options) *Service {
	if opts.Hook == nil {
		opts.Hook = noopRefreshHook{}
	}
	if opts.Telemetry == nil {
		opts.Telemetry = noopTelemetry{}
	}
	return &Service{opts: opts}
}

// List fetches one page of orders mapped into the display model.
func (s *Service) List(ctx context.Context, page, limit int) (Page, error) {
	if s.opts.Client == nil {
		return Page{}, errMissingClient
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	remote, err := s.opts.Client.ListRequests(ctx, page, limit)
	if err != nil {
		return Page{}, fmt.Errorf("orders: list requests: %w", err)
	}
	out := Page{
		Page:       remote.Page,
		Limit:      remote.Limit,
		Total:      remote.Total,
		TotalPages: remote.TotalPages,
	}
	if out.Page == 0 {
		out.Page = page
	}
	if out.Limit == 0 {
		out.Limit = limit
	}
	out.Orders = make([]Order, 0, len(remote.Submissions))
	for _, sub := range remote.Submissions {
		out.Orders = append(out.Orders, FromSubmission(sub))
	}
	return out, nil
}

// Approve advances a requested order into scraping.
func (s *Service) Approve(ctx context.Context, orderID int64) error {
	if s.opts.Client == nil {
		return errMissingClient
	}
	if orderID <= 0 {
		return errInvalidOrder
	}
	if err := s.opts.Client.SetStatus(ctx, orderID, string(StatusScraping)); err != nil {
		return fmt.Errorf("orders: approve %d: %w", orderID, err)
	}
	event := OrderEvent{Reason: "approve", OrderID: orderID}
	if err := s.opts.Hook.OrdersChanged(ctx, event); err != nil {
		return err
	}
	s.opts.Telemetry.Record(ctx, "orders.approve", map[string]any{"order_id": orderID})
	return nil
}

// Analyse kicks off analysis for a scraped order.
func (s *Service) Analyse(ctx context.Context, orderID int64) error {
	if s.opts.Client == nil {
		return errMissingClient
	}
	if orderID <= 0 {
		return errInvalidOrder
	}
	if err := s.opts.Client.StartAnalysis(ctx, orderID); err != nil {
		return fmt.Errorf("orders: start analysis %d: %w", orderID, err)
	}
	event := OrderEvent{Reason: "analyse", OrderID: orderID}
	if err := s.opts.Hook.OrdersChanged(ctx, event); err != nil {
		return err
	}
	s.opts.Telemetry.Record(ctx, "orders.analyse", map[string]any{"order_id": orderID})
	return nil
}

// NotifyOrdersChanged exposes hook invocation for the poller and commands.
func (s *Service) NotifyOrdersChanged(ctx context.Context, event OrderEvent) error {
	if err := s.opts.Hook.OrdersChanged(ctx, event); err != nil {
		return err
	}
	s.opts.Telemetry.Record(ctx, "orders.event", map[string]any{
		"reason":   event.Reason,
		"order_id": event.OrderID,
	})
	return nil
}
