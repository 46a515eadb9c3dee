// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"fmt"
	"net/url"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Load reads configuration from environment variables.
// It attempts to load from .env file first (for local development),
// then parses environment variables into the Config struct.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env file loaded: %v", err)
	} else {
		logrus.Infof("loaded environment variables from .env file")
	}

	return Parse()
}

// Parse reads configuration from the current environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}

	return cfg, nil
}

// Validate checks what both the one-shot command and the service need.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("CLIENT_ID is required")
	}

	if c.IPCTimeout <= 0 {
		return fmt.Errorf("invalid IPC_TIMEOUT: %v (must be positive)", c.IPCTimeout)
	}
	if c.IPCWait < 0 {
		return fmt.Errorf("invalid IPC_WAIT: %v (must not be negative)", c.IPCWait)
	}
	if c.RatingsTimeout <= 0 {
		return fmt.Errorf("invalid RATINGS_TIMEOUT: %v (must be positive)", c.RatingsTimeout)
	}

	u, err := url.Parse(c.RatingsBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid RATINGS_BASE_URL: %q", c.RatingsBaseURL)
	}

	return nil
}

// ValidateService additionally checks the control, metrics and gRPC servers.
func (c *Config) ValidateService() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.APIKey == "" {
		return fmt.Errorf("API_KEY is required")
	}

	if c.ControlPort < 1 || c.ControlPort > 65535 {
		return fmt.Errorf("invalid CONTROL_PORT: %d (must be 1-65535)", c.ControlPort)
	}

	if c.MetricsEnabled && (c.MetricsPort < 1 || c.MetricsPort > 65535) {
		return fmt.Errorf("invalid METRICS_PORT: %d (must be 1-65535)", c.MetricsPort)
	}

	// 0 disables the gRPC server
	if c.GRPCPort < 0 || c.GRPCPort > 65535 {
		return fmt.Errorf("invalid GRPC_PORT: %d (must be 0-65535)", c.GRPCPort)
	}

	return nil
}
