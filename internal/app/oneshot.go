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

	"github.com/tanki-rpc/tanki-rich-presence/internal/config"
	"github.com/tanki-rpc/tanki-rich-presence/pkg/presence"

	"github.com/sirupsen/logrus"
)

// Show publishes username's presence once and keeps it up until interrupted.
func Show(ctx context.Context, cfg *config.Config, username string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.OtelEnabled {
		shutdownTelemetry, err := setupTelemetry(ctx, cfg.ServiceName, cfg.Environment, cfg.ZipkinEndpoint)
		if err != nil {
			return fmt.Errorf("failed to setup telemetry: %w", err)
		}
		defer func() {
			if err := shutdownTelemetry(context.Background()); err != nil {
				logrus.Errorf("telemetry shutdown error: %v", err)
			}
		}()
	}

	source, err := NewProfileSource(cfg, username)
	if err != nil {
		return err
	}

	return ShowSession(ctx, presence.NewSession(NewConnector(cfg), source), username)
}

// ShowSession starts session, waits for ctx to end and then stops it.
func ShowSession(ctx context.Context, session *presence.Session, username string) error {
	if _, err := session.Start(ctx); err != nil {
		return fmt.Errorf("unable to show presence for %s: %w", username, err)
	}
	logrus.Infof("Tanki Rich Presence (for user %s) is now active!", username)

	<-ctx.Done()

	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := session.Close(closeCtx); err != nil {
		return fmt.Errorf("unable to clear presence: %w", err)
	}
	logrus.Info("presence cleared")
	return nil
}
