package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"go.uber.org/zap"

	"github.com/billdhq/admin-console/components/analysis"
	"github.com/billdhq/admin-console/components/orders"
	"github.com/billdhq/admin-console/components/webui"
	"github.com/billdhq/admin-console/pkg/adminapi"
	"github.com/billdhq/admin-console/pkg/config"
	"github.com/billdhq/admin-console/pkg/logging"
)

type cli struct {
	Config string    `type:"path" help:"Path to the YAML configuration file."`
	Serve  serveCmd  `cmd:"" default:"1" help:"Run the admin console server."`
	Render renderCmd `cmd:"" help:"Render an analysis document file to HTML on stdout."`
}

func main() {
	app := &cli{}
	ctx := kong.Parse(app,
		kong.Description("Admin console for reviewing business analysis orders."),
		kong.UsageOnError(),
	)
	err := ctx.Run(app)
	ctx.FatalIfErrorf(err)
}

type serveCmd struct{}

func (cmd *serveCmd) Run(app *cli) error {
	cfg, err := config.Load(app.Config)
	if err != nil {
		return err
	}
	logger := logging.NewLogger(logging.Config{
		FilePath:   cfg.Logging.FilePath,
		Production: cfg.Logging.Production,
	})
	defer logger.Sync() //nolint:errcheck
	telemetry := logging.NewZapTelemetry(logger)

	client, err := adminapi.NewHTTPClient(adminapi.HTTPConfig{
		BaseURL: cfg.Remote.BaseURL,
		APIKey:  cfg.Remote.APIKey,
	})
	if err != nil {
		return err
	}

	hook := orders.NewBroadcastHook()
	service := orders.NewService(orders.Options{
		Client:    client,
		Hook:      hook,
		Telemetry: telemetry,
	})

	sessions := webui.NewSessionManager(webui.SessionOptions{
		Client:    client,
		Telemetry: telemetry,
	})
	controller, err := webui.NewController(webui.ControllerOptions{
		Orders:   service,
		Sessions: sessions,
	})
	if err != nil {
		return err
	}

	server := router.NewFiberAdapter()
	if err := webui.Register(webui.Config[*fiber.App]{
		Router:     server.Router(),
		Controller: controller,
		Approve:    orders.NewApproveOrderCommand(service, telemetry),
		Analyse:    orders.NewStartAnalysisCommand(service, telemetry),
		ListQuery:  orders.NewPageQuery(service),
		Broadcast:  hook,
	}); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	poller := orders.NewPoller(orders.PollerOptions{
		Service:  service,
		Interval: cfg.Poll.Interval,
		Page:     cfg.Poll.Page,
		Limit:    cfg.Poll.Limit,
	})
	go poller.Run(ctx)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("admin console ready",
		zap.String("addr", addr),
		zap.String("orders", "/admin/orders"),
	)
	return server.Serve(addr)
}

type renderCmd struct {
	Document string `arg:"" type:"path" help:"Path to a JSON analysis document."`
}

func (cmd *renderCmd) Run(app *cli) error {
	raw, err := os.ReadFile(cmd.Document)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	if err := analysis.NewDocumentValidator().Validate(raw); err != nil {
		return err
	}
	doc, err := analysis.DecodeDocument(raw)
	if err != nil {
		return err
	}
	renderer := analysis.NewTreeRenderer(analysis.RendererOptions{})
	blocks := renderer.Render(context.Background(), doc, analysis.OverlayState{})
	fmt.Fprintln(os.Stdout, webui.RenderBlocks(blocks))
	return nil
}
