package webui

import (
	"context"
	"fmt"
	"time"

	"github.com/billdhq/admin-console/components/analysis"
	"github.com/billdhq/admin-console/components/orders"
)

// OrderRow is the template model for one order list row.
type OrderRow struct {
	ID           string
	Customer     string
	Business     string
	Created      string
	StatusLabel  string
	StatusColor  string
	Actionable   bool
	ActionLabel  string
	ActionPath   string
	AnalysisPath string
}

// Controller builds page models and renders them through the template
// renderer.
type Controller struct {
	orders   *orders.Service
	sessions *SessionManager
	renderer Renderer
	basePath string
}

// ControllerOptions wires the controller's collaborators.
type ControllerOptions struct {
	Orders   *orders.Service
	Sessions *SessionManager
	Renderer Renderer
	BasePath string
}

// NewController builds a controller. The renderer falls back to the
// embedded templates.
func NewController(opts ControllerOptions) (*Controller, error) {
	renderer := opts.Renderer
	if renderer == nil {
		var err error
		renderer, err = NewTemplateRenderer()
		if err != nil {
			return nil, fmt.Errorf("webui: build renderer: %w", err)
		}
	}
	base := opts.BasePath
	if base == "" {
		base = "/admin"
	}
	return &Controller{
		orders:   opts.Orders,
		sessions: opts.Sessions,
		renderer: renderer,
		basePath: base,
	}, nil
}

// Sessions exposes the session manager for route handlers.
func (c *Controller) Sessions() *SessionManager { return c.sessions }

// Orders exposes the order service for route handlers.
func (c *Controller) Orders() *orders.Service { return c.orders }

// RenderOrders fetches a page of orders and renders the list page.
func (c *Controller) RenderOrders(ctx context.Context, pageNum, limit int) (string, error) {
	page, err := c.orders.List(ctx, pageNum, limit)
	if err != nil {
		return c.RenderError("Failed to fetch order data.")
	}
	rows := make([]OrderRow, 0, len(page.Orders))
	for _, order := range page.Orders {
		rows = append(rows, c.orderRow(order))
	}
	data := map[string]any{
		"title":       "Analysis Orders",
		"rows":        rows,
		"page":        page.Page,
		"total_pages": page.TotalPages,
		"prev_page":   page.Page - 1,
		"next_page":   page.Page + 1,
		"has_prev":    page.Page > 1,
		"has_next":    page.Page < page.TotalPages,
		"base_path":   c.basePath,
	}
	return c.renderer.Render("orders", data)
}

func (c *Controller) orderRow(order orders.Order) OrderRow {
	info := order.Status.Info()
	row := OrderRow{
		ID:           order.ID,
		Customer:     order.Customer,
		Business:     order.Business,
		StatusLabel:  info.Label,
		StatusColor:  info.Color,
		Actionable:   order.Status.Actionable(),
		ActionLabel:  order.Status.Action(),
		AnalysisPath: fmt.Sprintf("%s/analysis/%d", c.basePath, order.Numeric),
	}
	if !order.CreatedAt.IsZero() {
		row.Created = order.CreatedAt.Format(time.DateTime)
	}
	switch order.Status {
	case orders.StatusRequested:
		row.ActionPath = fmt.Sprintf("%s/orders/%d/approve", c.basePath, order.Numeric)
	case orders.StatusScraped:
		row.ActionPath = fmt.Sprintf("%s/orders/%d/analyse", c.basePath, order.Numeric)
	case orders.StatusAnalysing:
		row.ActionPath = row.AnalysisPath
	}
	return row
}

// RenderAnalysis renders the report page for an open session's view.
func (c *Controller) RenderAnalysis(ctx context.Context, sid string, view *analysis.View) (string, error) {
	state, errMsg := view.State()
	data := map[string]any{
		"title":      fmt.Sprintf("Analysis %s", view.RequestID()),
		"request_id": view.RequestID(),
		"sid":        sid,
		"loading":    state == analysis.StateLoading,
		"failed":     state == analysis.StateError,
		"error":      errMsg,
		"base_path":  c.basePath,
	}
	if state == analysis.StateReady {
		data["report"] = RenderBlocks(view.Render(ctx))
	}
	return c.renderer.Render("analysis", data)
}

// RenderError renders the standalone error page.
func (c *Controller) RenderError(message string) (string, error) {
	return c.renderer.Render("error", map[string]any{
		"title":   "Something went wrong",
		"message": message,
	})
}
