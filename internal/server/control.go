// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/tanki-rpc/tanki-rich-presence/pkg/common"
	"github.com/tanki-rpc/tanki-rich-presence/pkg/metrics"
	"github.com/tanki-rpc/tanki-rich-presence/pkg/presence"

	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	apiKeyHeader = "x-api-key"

	startPath = "/startRPC"
	stopPath  = "/stopRPC"
)

// Control response messages.
const (
	MsgForbidden     = "Forbidden"
	MsgStarted       = "RPC Started"
	MsgAlreadyActive = "RPC Already Active"
	MsgStopped       = "RPC Stopped"
	MsgNotActive     = "RPC Not Active"
	MsgBusy          = "RPC Busy"
	MsgLoginFailed   = "Error logging into Discord RPC"
	MsgProfileFailed = "Error fetching ratings profile"
	MsgStopFailed    = "Error stopping Discord RPC"
)

// SessionController is the part of presence.Session the control server drives.
type SessionController interface {
	Start(ctx context.Context) (presence.StartResult, error)
	Stop(ctx context.Context) (presence.StopResult, error)
}

// ControlServer exposes /startRPC and /stopRPC guarded by a shared API key.
type ControlServer struct {
	server  *http.Server
	handler http.Handler
	host    string
	port    int
	apiKey  string
	session SessionController
}

// NewControlServer creates a new control server instance.
func NewControlServer(host string, port int, apiKey string, session SessionController) *ControlServer {
	return &ControlServer{
		host:    host,
		port:    port,
		apiKey:  apiKey,
		session: session,
	}
}

// Setup builds the handler chain: otelhttp → CORS → API key → routes.
//
// ============================================================
// DEVELOPER: Control endpoints
// ============================================================
// CORS runs before the API key check so browser preflight
// requests (which never carry custom headers) are answered
// without a key. Register new endpoints on the mux below; they
// inherit the key check automatically.
// ============================================================
func (c *ControlServer) Setup() error {
	if c.apiKey == "" {
		return fmt.Errorf("control server requires an API key")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+startPath, c.handleStart)
	mux.HandleFunc("GET "+stopPath, c.handleStop)

	c.handler = otelhttp.NewHandler(cors.AllowAll().Handler(c.requireAPIKey(mux)), "control")

	c.server = &http.Server{
		Addr:              net.JoinHostPort(c.host, strconv.Itoa(c.port)),
		Handler:           c.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return nil
}

// Handler returns the fully wrapped handler. Setup must be called first.
func (c *ControlServer) Handler() http.Handler {
	return c.handler
}

// Serve listens on the configured address and blocks until Shutdown.
func (c *ControlServer) Serve() error {
	logrus.Infof("control server listening on %s", c.server.Addr)
	if err := c.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("control server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the control server.
func (c *ControlServer) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down control server...")
	if err := c.server.Shutdown(ctx); err != nil {
		return err
	}
	logrus.Info("control server stopped")
	return nil
}

func (c *ControlServer) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(apiKeyHeader)
		if subtle.ConstantTimeCompare([]byte(key), []byte(c.apiKey)) != 1 {
			metrics.ControlRequestsTotal.WithLabelValues(r.URL.Path, "forbidden").Inc()
			logrus.WithField("path", r.URL.Path).Warn("rejected control request with invalid API key")
			http.Error(w, MsgForbidden, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (c *ControlServer) handleStart(w http.ResponseWriter, r *http.Request) {
	scope := common.GetScopeFromContext(r.Context(), "ControlServer.Start")
	defer scope.Finish()

	result, err := c.session.Start(scope.Ctx)
	switch {
	case errors.Is(err, presence.ErrSessionBusy):
		c.reply(w, startPath, "busy", http.StatusConflict, MsgBusy)
	case errors.Is(err, presence.ErrProfileUnavailable):
		scope.TraceError(err)
		scope.Log.Errorf("unable to start presence: %v", err)
		c.reply(w, startPath, "profile_error", http.StatusInternalServerError, MsgProfileFailed)
	case err != nil:
		scope.TraceError(err)
		scope.Log.Errorf("unable to start presence: %v", err)
		c.reply(w, startPath, "login_error", http.StatusInternalServerError, MsgLoginFailed)
	case result == presence.AlreadyActive:
		c.reply(w, startPath, "already_active", http.StatusOK, MsgAlreadyActive)
	default:
		c.reply(w, startPath, "started", http.StatusOK, MsgStarted)
	}
}

func (c *ControlServer) handleStop(w http.ResponseWriter, r *http.Request) {
	scope := common.GetScopeFromContext(r.Context(), "ControlServer.Stop")
	defer scope.Finish()

	result, err := c.session.Stop(scope.Ctx)
	switch {
	case errors.Is(err, presence.ErrSessionBusy):
		c.reply(w, stopPath, "busy", http.StatusConflict, MsgBusy)
	case err != nil:
		scope.TraceError(err)
		scope.Log.Errorf("unable to stop presence: %v", err)
		c.reply(w, stopPath, "stop_error", http.StatusInternalServerError, MsgStopFailed)
	case result == presence.NotActive:
		c.reply(w, stopPath, "not_active", http.StatusOK, MsgNotActive)
	default:
		c.reply(w, stopPath, "stopped", http.StatusOK, MsgStopped)
	}
}

type controlResponse struct {
	Message string `json:"message"`
}

func (c *ControlServer) reply(w http.ResponseWriter, endpoint, outcome string, status int, message string) {
	metrics.ControlRequestsTotal.WithLabelValues(endpoint, outcome).Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(controlResponse{Message: message}); err != nil {
		logrus.Errorf("failed to write control response: %v", err)
	}
}
