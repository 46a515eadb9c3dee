// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"fmt"

	"github.com/tanki-rpc/tanki-rich-presence/internal/config"
	"github.com/tanki-rpc/tanki-rich-presence/internal/server"
	"github.com/tanki-rpc/tanki-rich-presence/pkg/discord"
	"github.com/tanki-rpc/tanki-rich-presence/pkg/metrics"
	"github.com/tanki-rpc/tanki-rich-presence/pkg/presence"
	"github.com/tanki-rpc/tanki-rich-presence/pkg/ratings"

	"github.com/sirupsen/logrus"
)

// setupTelemetry is replaced in tests.
var setupTelemetry = server.SetupTelemetry

// App holds all application dependencies and manages the application lifecycle.
type App struct {
	cfg               *config.Config
	session           *presence.Session
	controlServer     *server.ControlServer
	grpcServer        *server.GRPCServer
	metricsServer     *server.MetricsServer
	shutdownTelemetry func(context.Context) error
}

// New creates and initializes a new application instance for username.
//
// ============================================================
// DEVELOPER: Application initialization order
// ============================================================
// Components are initialized in dependency order:
// 1. Telemetry (so every later span has a real provider)
// 2. Presence session (template, ratings fetcher, Discord connector)
// 3. Servers (control, gRPC, metrics)
//
// The session's state observers are attached in step 3 once the
// gRPC health server exists.
// ============================================================
func New(ctx context.Context, cfg *config.Config, username string) (_ *App, err error) {
	logrus.Info("initializing application...")

	app := &App{cfg: cfg}

	// Undo telemetry if a later step fails; nothing else holds resources yet.
	defer func() {
		if err != nil && app.shutdownTelemetry != nil {
			if shutdownErr := app.shutdownTelemetry(context.WithoutCancel(ctx)); shutdownErr != nil {
				logrus.Errorf("telemetry shutdown error: %v", shutdownErr)
			}
			app.shutdownTelemetry = nil
		}
	}()

	// ============================================================
	// Step 1: Setup telemetry
	// ============================================================
	if cfg.OtelEnabled {
		shutdownTelemetry, err := setupTelemetry(ctx, cfg.ServiceName, cfg.Environment, cfg.ZipkinEndpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to setup telemetry: %w", err)
		}
		app.shutdownTelemetry = shutdownTelemetry
	}

	// ============================================================
	// Step 2: Build the presence session
	// ============================================================
	source, err := NewProfileSource(cfg, username)
	if err != nil {
		return nil, err
	}

	// ============================================================
	// Step 3: Setup servers
	// ============================================================
	observers := []presence.SessionOption{
		presence.WithStateObserver(metrics.SetPresenceActive),
	}

	if cfg.GRPCPort > 0 {
		app.grpcServer = server.NewGRPCServer(cfg.GRPCPort)
		if err := app.grpcServer.Setup(); err != nil {
			return nil, fmt.Errorf("failed to setup gRPC server: %w", err)
		}
		observers = append(observers, presence.WithStateObserver(app.grpcServer.SetPresenceServing))
	}

	app.session = presence.NewSession(NewConnector(cfg), source, observers...)

	app.controlServer = server.NewControlServer(cfg.ControlHost, cfg.ControlPort, cfg.APIKey, app.session)
	if err := app.controlServer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to setup control server: %w", err)
	}

	if cfg.MetricsEnabled {
		app.metricsServer = server.NewMetricsServer(cfg.ControlHost, cfg.MetricsPort, "/metrics")
		if err := app.metricsServer.Setup(); err != nil {
			return nil, fmt.Errorf("failed to setup metrics server: %w", err)
		}
	}

	logrus.Info("application initialized successfully")

	return app, nil
}

// NewProfileSource builds the ratings fetcher and presence template described by cfg.
func NewProfileSource(cfg *config.Config, username string) (*presence.ProfileSource, error) {
	tpl := presence.DefaultTemplate()
	if cfg.TemplatePath != "" {
		loaded, err := presence.LoadTemplate(cfg.TemplatePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load presence template from %s: %w", cfg.TemplatePath, err)
		}
		tpl = loaded
		logrus.Infof("loaded presence template from %s", cfg.TemplatePath)
	}

	fetcher := ratings.NewFetcher(ratings.FetcherConfig{
		BaseURL: cfg.RatingsBaseURL,
		Lang:    cfg.RatingsLang,
		Timeout: cfg.RatingsTimeout,
		Strict:  cfg.RatingsStrict,
	})

	source, err := presence.NewProfileSource(fetcher, tpl, username)
	if err != nil {
		return nil, fmt.Errorf("invalid presence template: %w", err)
	}
	return source, nil
}

// NewConnector builds the Discord IPC connector described by cfg.
func NewConnector(cfg *config.Config) *presence.DiscordConnector {
	return presence.NewDiscordConnector(discord.Options{
		ClientID: cfg.ClientID,
		Path:     cfg.IPCPath,
		Timeout:  cfg.IPCTimeout,
	}, cfg.IPCWait)
}
