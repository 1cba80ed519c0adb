package app

import (
	"context"

	"go.uber.org/zap"

	"meterwatch/internal/config"
	httpserver "meterwatch/internal/http"
	"meterwatch/internal/http/handlers"
	"meterwatch/internal/meterapi"
	"meterwatch/internal/session"
)

// App wires meterwatch dependencies.
type App struct {
	server  *httpserver.Server
	manager *session.Manager
	logger  *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	client := meterapi.NewClient(cfg.Upstream.BaseURL, cfg.RequestTimeout(), logger)

	manager := session.NewManager(session.Options{
		Client:            client,
		WSBaseURL:         cfg.Upstream.WSURL,
		RecentLimit:       cfg.Dashboard.RecentLimit,
		ReconcileInterval: cfg.ReconcileInterval(),
		Logger:            logger,
	}, cfg.SessionIdle(), logger)

	defaults := handlers.Defaults{
		Meter: cfg.Dashboard.DefaultMeter,
		PIN:   cfg.Dashboard.DefaultPIN,
	}

	routes := httpserver.Routes{
		Dashboard:  handlers.NewDashboardHandler(manager, defaults, logger),
		MeterState: handlers.NewStateHandler(manager, defaults),
		Health:     handlers.NewHealthHandler(),
	}

	router := httpserver.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server:  server,
		manager: manager,
		logger:  logger,
	}, nil
}

// Run starts the session reaper and the HTTP server.
func (a *App) Run(ctx context.Context) error {
	go a.manager.Run(ctx)
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	a.manager.Close()
}
