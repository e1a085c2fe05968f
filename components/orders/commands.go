package orders

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// ApproveOrderInput identifies the order to approve.
type ApproveOrderInput struct {
	OrderID int64 `json:"order_id"`
}

type approveService interface {
	Approve(ctx context.Context, orderID int64) error
}

// ApproveOrderCommand wraps Service.Approve so transports can trigger the
// requested -> scraping transition without linking against the service.
type ApproveOrderCommand struct {
	service   approveService
	telemetry Telemetry
}

// NewApproveOrderCommand creates the command.
func NewApproveOrderCommand(service approveService, telemetry Telemetry) *ApproveOrderCommand {
	if telemetry == nil {
		telemetry = noopTelemetry{}
	}
	return &ApproveOrderCommand{service: service, telemetry: telemetry}
}

var _ gocommand.Commander[ApproveOrderInput] = (*ApproveOrderCommand)(nil)

// Execute delegates to the order service.
func (c *ApproveOrderCommand) Execute(ctx context.Context, msg ApproveOrderInput) error {
	if c.service == nil {
		return errors.New("approve command requires service")
	}
	if err := c.service.Approve(ctx, msg.OrderID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "orders.command.approve", map[string]any{"order_id": msg.OrderID})
	return nil
}

// StartAnalysisInput identifies the order to analyse.
type StartAnalysisInput struct {
	OrderID int64 `json:"order_id"`
}

type analyseService interface {
	Analyse(ctx context.Context, orderID int64) error
}

// StartAnalysisCommand wraps Service.Analyse for transports.
type StartAnalysisCommand struct {
	service   analyseService
	telemetry Telemetry
}

// NewStartAnalysisCommand creates the command.
func NewStartAnalysisCommand(service analyseService, telemetry Telemetry) *StartAnalysisCommand {
	if telemetry == nil {
		telemetry = noopTelemetry{}
	}
	return &StartAnalysisCommand{service: service, telemetry: telemetry}
}

var _ gocommand.Commander[StartAnalysisInput] = (*StartAnalysisCommand)(nil)

// Execute delegates to the order service.
func (c *StartAnalysisCommand) Execute(ctx context.Context, msg StartAnalysisInput) error {
	if c.service == nil {
		return errors.New("start analysis command requires service")
	}
	if err := c.service.Analyse(ctx, msg.OrderID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "orders.command.analyse", map[string]any{"order_id": msg.OrderID})
	return nil
}

// PageInput requests one page of the order list.
type PageInput struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type listService interface {
	List(ctx context.Context, page, limit int) (Page, error)
}

// PageQuery fetches an order page for transports.
type PageQuery struct {
	service listService
}

// NewPageQuery builds the query.
func NewPageQuery(service listService) *PageQuery {
	return &PageQuery{service: service}
}

var _ gocommand.Querier[PageInput, Page] = (*PageQuery)(nil)

// Query resolves the requested page.
func (q *PageQuery) Query(ctx context.Context, input PageInput) (Page, error) {
	if q.service == nil {
		return Page{}, errors.New("page query requires service")
	}
	return q.service.List(ctx, input.Page, input.Limit)
}
