package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/deskflow/helpdesk/internal/api/http"
	"github.com/deskflow/helpdesk/internal/api/http/handlers"
	"github.com/deskflow/helpdesk/internal/auth"
	"github.com/deskflow/helpdesk/internal/config"
	"github.com/deskflow/helpdesk/internal/events"
	"github.com/deskflow/helpdesk/internal/observability"
	"github.com/deskflow/helpdesk/internal/repository"
	"github.com/deskflow/helpdesk/internal/service"
	"github.com/deskflow/helpdesk/internal/worker"
)

type serveOptions struct {
	host string
	port string
	seed bool
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "helpdesk",
		Short: "Helpdesk - support ticket workflow service",
		Long:  `Helpdesk serves the support ticket workflow (end users, agents and admins) over HTTP.`,
	}
	rootCmd.AddCommand(newServeCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newServeCommand() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.host, "host", "", "Bind host (overrides APP_HOST)")
	cmd.Flags().StringVarP(&opts.port, "port", "p", "", "Bind port (overrides APP_PORT)")
	cmd.Flags().BoolVar(&opts.seed, "seed", false, "Install the demo users and tickets on startup")
	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.host != "" {
		cfg.App.Host = opts.host
	}
	if opts.port != "" {
		cfg.App.Port = opts.port
	}
	if cmd.Flags().Changed("seed") {
		cfg.Desk.SeedSampleData = opts.seed
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	desk := service.NewDesk(service.DeskDependencies{
		Categories:  cfg.Desk.Categories,
		DefaultRole: cfg.Desk.DefaultRole,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	if cfg.Desk.SeedSampleData {
		if err := desk.SeedSampleData(ctx); err != nil {
			return fmt.Errorf("failed to seed sample data: %w", err)
		}
	}

	notificationService := service.NewNotificationService(desk, logger, metrics, cfg.Notification)
	worker.StartNotificationWorker(notificationService)
	historyService := service.NewHistoryService(repository.NewTicketHistoryRepository(), logger)
	historyService.RegisterHandlers(desk)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	authService := service.NewAuthService(desk, tokens, logger)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), desk)

	app := httptransport.NewApp(cfg.App.Name)
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, desk, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(desk, historyService),
		Admin:          handlers.NewAdminHandler(desk),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	return app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
