// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import "time"

// Config holds all application configuration loaded from environment variables.
// This struct uses github.com/caarlos0/env for automatic environment variable parsing.
//
// ============================================================
// DEVELOPER: Add new configuration fields here.
// ============================================================
// Use struct tags to define:
// - `env:"VAR_NAME"` - the environment variable name
// - `env:",required"` - make it required
// - `envDefault:"value"` - set a default value
//
// After adding fields here, update loader.go Validate() if custom
// validation is needed.
// ============================================================
type Config struct {
	// ============================================================
	// Discord configuration (REQUIRED)
	// ============================================================
	ClientID     string        `env:"CLIENT_ID,required,notEmpty"`
	IPCPath      string        `env:"DISCORD_IPC_PATH"`
	IPCTimeout   time.Duration `env:"IPC_TIMEOUT" envDefault:"10s"`
	IPCWait      time.Duration `env:"IPC_WAIT" envDefault:"0s"`
	TemplatePath string        `env:"PRESENCE_TEMPLATE_PATH"`

	// ============================================================
	// Control server configuration (serve only)
	// ============================================================
	APIKey      string `env:"API_KEY"`
	ControlHost string `env:"CONTROL_HOST" envDefault:"127.0.0.1"`
	ControlPort int    `env:"CONTROL_PORT" envDefault:"3000"`

	// ============================================================
	// Ratings API configuration
	// ============================================================
	RatingsBaseURL string        `env:"RATINGS_BASE_URL" envDefault:"https://ratings.tankionline.com"`
	RatingsLang    string        `env:"RATINGS_LANG" envDefault:"en"`
	RatingsTimeout time.Duration `env:"RATINGS_TIMEOUT" envDefault:"10s"`
	RatingsStrict  bool          `env:"RATINGS_STRICT" envDefault:"false"`

	// ============================================================
	// Server configuration
	// ============================================================
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	MetricsPort    int    `env:"METRICS_PORT" envDefault:"8080"`
	GRPCPort       int    `env:"GRPC_PORT" envDefault:"6565"`
	Environment    string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName    string `env:"SERVICE_NAME" envDefault:"TankiRichPresence"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`

	// ============================================================
	// Telemetry configuration
	// ============================================================
	OtelEnabled    bool   `env:"OTEL_ENABLED" envDefault:"false"`
	ZipkinEndpoint string `env:"OTEL_EXPORTER_ZIPKIN_ENDPOINT"`
}
