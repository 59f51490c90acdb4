package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"mematlas/app/config"
	"mematlas/app/service/graph"
	"mematlas/app/service/recorder"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mark3labs/mcp-go/server"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

const (
	serverName    = "mematlas"
	serverVersion = "1.0.0"

	shutdownTimeout = 5 * time.Second
)

type Service struct {
	cfg         *config.Config
	graphSvc    *graph.Service
	recorderSvc *recorder.Service

	mcp      *server.MCPServer
	fiberApp *fiber.App
}

var _ do.Shutdownable = (*Service)(nil)

func New(di *do.Injector) (*Service, error) {
	s := &Service{
		cfg:         do.MustInvoke[*config.Config](di),
		graphSvc:    do.MustInvoke[*graph.Service](di),
		recorderSvc: do.MustInvoke[*recorder.Service](di),
	}

	s.mcp = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions("Knowledge graph memory server with location extraction. Use the graph tools to persist entities, relations and observations; use extract_and_record to pull location mentions out of free text."),
	)

	s.registerTools()

	if s.cfg.Server.Transport == config.TransportHTTP {
		s.fiberApp = s.newFiberApp()
	}

	return s, nil
}

func (s *Service) newFiberApp() *fiber.App {
	streamable := server.NewStreamableHTTPServer(s.mcp, server.WithEndpointPath("/mcp"))

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  s.cfg.Server.AllowedOrigins,
		AllowHeaders:  "Content-Type, Authorization, Mcp-Session-Id, Mcp-Protocol-Version, Last-Event-ID",
		ExposeHeaders: "Mcp-Session-Id",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.All("/mcp", adaptor.HTTPHandler(streamable))

	return app
}

func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Server.Transport == config.TransportHTTP {
		return s.runHTTP(ctx)
	}

	return s.runStdio(ctx)
}

func (s *Service) runStdio(ctx context.Context) error {
	slog.Info("Serving MCP over stdio")

	if err := server.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout); err != nil {
		return fmt.Errorf("stdio server failed: %w", err)
	}

	return nil
}

func (s *Service) runHTTP(ctx context.Context) error {
	slog.Info("Serving MCP over HTTP", "addr", s.cfg.Server.Addr)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := s.fiberApp.Listen(s.cfg.Server.Addr); err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}

		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return s.fiberApp.ShutdownWithContext(shutdownCtx)
	})

	return group.Wait()
}

func (s *Service) Shutdown() error {
	if s.fiberApp != nil {
		return s.fiberApp.Shutdown()
	}

	return nil
}
