package webui

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	router "github.com/goliatone/go-router"

	"github.com/billdhq/admin-console/components/analysis"
	"github.com/billdhq/admin-console/components/orders"
)

// Config wires go-router with the console's controller, commands, and
// broadcast hook.
type Config[T any] struct {
	Router     router.Router[T]
	Controller *Controller
	Approve    *orders.ApproveOrderCommand
	Analyse    *orders.StartAnalysisCommand
	ListQuery  *orders.PageQuery
	Broadcast  *orders.BroadcastHook
	BasePath   string
	Routes     RouteConfig
}

// RouteConfig customizes the relative paths used for console endpoints.
type RouteConfig struct {
	Orders     string
	OrdersList string
	Approve    string
	Analyse    string
	Analysis   string
	Comments   string
	Close      string
	Viewport   string
	WebSocket  string
}

// Register mounts the console routes (HTML, JSON, WebSocket) on a go-router
// router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("webui: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("webui: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}
	group := cfg.Router.Group(base)

	group.Get(routes.Orders, router.WrapHandler(func(ctx router.Context) error {
		page := intQuery(ctx, "page", 1)
		limit := intQuery(ctx, "limit", 10)
		html, err := cfg.Controller.RenderOrders(ctx.Context(), page, limit)
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return sendHTML(ctx, html)
	}))

	if cfg.ListQuery != nil {
		group.Get(routes.OrdersList, router.WrapHandler(func(ctx router.Context) error {
			input := orders.PageInput{
				Page:  intQuery(ctx, "page", 1),
				Limit: intQuery(ctx, "limit", 10),
			}
			page, err := cfg.ListQuery.Query(ctx.Context(), input)
			if err != nil {
				return respondError(ctx, http.StatusBadGateway, err)
			}
			return ctx.JSON(http.StatusOK, page)
		}))
	}

	if cfg.Approve != nil {
		group.Post(routes.Approve, router.WrapHandler(func(ctx router.Context) error {
			id, err := orderID(ctx)
			if err != nil {
				return respondError(ctx, http.StatusBadRequest, err)
			}
			if err := cfg.Approve.Execute(ctx.Context(), orders.ApproveOrderInput{OrderID: id}); err != nil {
				return respondError(ctx, http.StatusBadGateway, err)
			}
			return redirect(ctx, base+routes.Orders)
		}))
	}

	if cfg.Analyse != nil {
		group.Post(routes.Analyse, router.WrapHandler(func(ctx router.Context) error {
			id, err := orderID(ctx)
			if err != nil {
				return respondError(ctx, http.StatusBadRequest, err)
			}
			if err := cfg.Analyse.Execute(ctx.Context(), orders.StartAnalysisInput{OrderID: id}); err != nil {
				return respondError(ctx, http.StatusBadGateway, err)
			}
			return redirect(ctx, base+routes.Orders)
		}))
	}

	registerAnalysis(group, cfg.Controller, routes)

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

func registerAnalysis[T any](r router.Router[T], controller *Controller, routes RouteConfig) {
	sessions := controller.Sessions()

	r.Get(routes.Analysis, router.WrapHandler(func(ctx router.Context) error {
		requestID := ctx.Param("id")
		if requestID == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("request id is required"))
		}
		sid := ctx.Query("sid")
		view, ok := sessions.Get(sid, requestID)
		if !ok {
			sid, view = sessions.Open(ctx.Context(), requestID)
		}
		html, err := controller.RenderAnalysis(ctx.Context(), sid, view)
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return sendHTML(ctx, html)
	}))

	r.Post(routes.Comments, router.WrapHandler(func(ctx router.Context) error {
		view, ok := sessions.Get(ctx.Query("sid"), ctx.Param("id"))
		if !ok {
			return respondError(ctx, http.StatusNotFound, errors.New("analysis session not found"))
		}
		var payload commentRequest
		if len(ctx.Body()) > 0 {
			if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
				return respondError(ctx, http.StatusBadRequest, err)
			}
		}
		board := view.Board()
		switch ctx.Param("action") {
		case "annotate":
			board.Annotate(view.Section(payload.SectionID), payload.X, payload.Y)
		case "activate":
			board.Activate(payload.Index)
		case "text":
			board.SetText(payload.Text)
		case "submit":
			board.SetText(payload.Text)
			board.Submit()
		case "dismiss":
			board.Dismiss()
		default:
			return respondError(ctx, http.StatusNotFound, errors.New("unknown comment action"))
		}
		return ctx.JSON(http.StatusOK, board.Snapshot())
	}))

	r.Post(routes.Close, router.WrapHandler(func(ctx router.Context) error {
		sessions.Close(ctx.Query("sid"))
		return ctx.JSON(http.StatusOK, map[string]string{"status": "closed"})
	}))

	r.Post(routes.Viewport, router.WrapHandler(func(ctx router.Context) error {
		var ev analysis.ResizeEvent
		if err := json.Unmarshal(ctx.Body(), &ev); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		sessions.Resize(ev)
		return ctx.JSON(http.StatusOK, map[string]string{"status": "resized"})
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *orders.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

type commentRequest struct {
	SectionID string  `json:"sectionId"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Index     int     `json:"index"`
	Text      string  `json:"text"`
}

func orderID(ctx router.Context) (int64, error) {
	raw := ctx.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid order id %q", raw)
	}
	return id, nil
}

func intQuery(ctx router.Context, name string, fallback int) int {
	raw := ctx.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func sendHTML(ctx router.Context, html string) error {
	ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
	return ctx.Send([]byte(html))
}

func redirect(ctx router.Context, target string) error {
	ctx.SetHeader("Location", target)
	return ctx.JSON(http.StatusSeeOther, map[string]string{"redirect": target})
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Orders == "" {
		routes.Orders = "/orders"
	}
	if routes.OrdersList == "" {
		routes.OrdersList = "/orders/_list"
	}
	if routes.Approve == "" {
		routes.Approve = "/orders/:id/approve"
	}
	if routes.Analyse == "" {
		routes.Analyse = "/orders/:id/analyse"
	}
	if routes.Analysis == "" {
		routes.Analysis = "/analysis/:id"
	}
	if routes.Comments == "" {
		routes.Comments = "/analysis/:id/comments/:action"
	}
	if routes.Close == "" {
		routes.Close = "/analysis/:id/close"
	}
	if routes.Viewport == "" {
		routes.Viewport = "/analysis/viewport"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/orders/ws"
	}
	return routes
}
