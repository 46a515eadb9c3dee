// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Run starts the application and blocks until a shutdown signal is received
// or one of the servers fails.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.grpcServer != nil {
		if err := a.grpcServer.Listen(); err != nil {
			a.shutdown()
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(a.controlServer.Serve)
	if a.grpcServer != nil {
		g.Go(a.grpcServer.Serve)
	}
	if a.metricsServer != nil {
		g.Go(a.metricsServer.Serve)
	}

	g.Go(func() error {
		<-gctx.Done()
		logrus.Info("shutdown signal received")
		a.shutdown()
		return nil
	})

	logrus.Info("application started successfully")

	if err := g.Wait(); err != nil {
		return fmt.Errorf("application stopped with error: %w", err)
	}
	return nil
}

func (a *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = a.Shutdown(ctx)
}

// Shutdown gracefully shuts down all application components.
//
// ============================================================
// DEVELOPER: Shutdown order is critical
// ============================================================
// Components are shut down in reverse dependency order:
// 1. Stop accepting new requests (control, gRPC, metrics servers)
// 2. Clear the published activity and close the IPC connection
// 3. Flush telemetry data (OpenTelemetry)
//
// IMPORTANT: Shutdown errors are logged but don't stop the
// shutdown sequence. Each component gets a chance to clean up.
// ============================================================
func (a *App) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down application...")

	// ============================================================
	// Step 1: Shutdown servers (stop accepting new requests)
	// ============================================================
	if a.controlServer != nil {
		if err := a.controlServer.Shutdown(ctx); err != nil {
			logrus.Errorf("control server shutdown error: %v", err)
		}
	}
	if a.grpcServer != nil {
		if err := a.grpcServer.Shutdown(ctx); err != nil {
			logrus.Errorf("gRPC server shutdown error: %v", err)
		}
	}
	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			logrus.Errorf("metrics server shutdown error: %v", err)
		}
	}

	// ============================================================
	// Step 2: Close the presence session
	// ============================================================
	if a.session != nil {
		if err := a.session.Close(ctx); err != nil {
			logrus.Errorf("presence session close error: %v", err)
		}
	}

	// ============================================================
	// Step 3: Flush telemetry data
	// ============================================================
	if a.shutdownTelemetry != nil {
		if err := a.shutdownTelemetry(ctx); err != nil {
			logrus.Errorf("telemetry shutdown error: %v", err)
		}
	}

	logrus.Info("application shutdown complete")
	return nil
}
