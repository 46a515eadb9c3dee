// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package presence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tanki-rpc/tanki-rich-presence/pkg/common"
	"github.com/tanki-rpc/tanki-rich-presence/pkg/metrics"
)

const (
	stateInactive int32 = iota
	stateStarting
	stateActive
	stateStopping
)

// StartResult tells whether Start published a new activity.
type StartResult int

const (
	Started StartResult = iota
	AlreadyActive
)

// StopResult tells whether Stop tore down an active session.
type StopResult int

const (
	Stopped StopResult = iota
	NotActive
)

// StateObserver is called with true when the session becomes active and false when it stops.
type StateObserver func(active bool)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithStateObserver registers an observer for active/inactive transitions.
func WithStateObserver(o StateObserver) SessionOption {
	return func(s *Session) {
		s.observers = append(s.observers, o)
	}
}

// Session owns the presence connection of the process. State transitions are
// guarded by compare-and-swap so concurrent starts log in at most once.
type Session struct {
	connector Connector
	source    ActivitySource
	observers []StateObserver

	state atomic.Int32

	mu   sync.Mutex
	conn Conn
}

// NewSession creates an inactive session.
func NewSession(connector Connector, source ActivitySource, opts ...SessionOption) *Session {
	s := &Session{
		connector: connector,
		source:    source,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Active reports whether an activity is currently published.
func (s *Session) Active() bool {
	return s.state.Load() == stateActive
}

// Start builds the activity, logs in and publishes it. Starting a session that is
// already active or starting is a no-op that returns AlreadyActive. A caller that
// joins an in-flight start gets AlreadyActive even if that start later fails.
// Any failed start, including a panic while building the activity, leaves the
// session inactive so the next Start tries again.
func (s *Session) Start(ctx context.Context) (result StartResult, err error) {
	for !s.state.CompareAndSwap(stateInactive, stateStarting) {
		switch s.state.Load() {
		case stateStarting, stateActive:
			return AlreadyActive, nil
		case stateStopping:
			return 0, ErrSessionBusy
		}
	}

	scope := common.GetScopeFromContext(ctx, "Session.Start")
	defer scope.Finish()

	started := false
	defer func() {
		if r := recover(); r != nil {
			result, err = 0, fmt.Errorf("presence session start panicked: %v", r)
		}
		if !started {
			s.state.Store(stateInactive)
			scope.TraceError(err)
			scope.Log.Errorf("failed to start presence session: %v", err)
		}
	}()

	conn, err := s.open(scope.Ctx)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	s.state.Store(stateActive)
	started = true
	s.notify(true)
	scope.Log.Info("presence session active")
	return Started, nil
}

func (s *Session) open(ctx context.Context) (Conn, error) {
	activity, err := s.source.Activity(ctx)
	if err != nil {
		return nil, err
	}

	conn, err := s.connector.Connect(ctx)
	if err != nil {
		metrics.IPCLoginFailuresTotal.Inc()
		return nil, fmt.Errorf("%w: %w", ErrLogin, err)
	}

	if err := conn.SetActivity(ctx, activity); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: %w", ErrPublish, err)
	}
	return conn, nil
}

// Stop clears the activity and closes the connection. Stopping an inactive
// session is a no-op that returns NotActive. The session always ends inactive,
// even when the teardown reports an error.
func (s *Session) Stop(ctx context.Context) (StopResult, error) {
	for !s.state.CompareAndSwap(stateActive, stateStopping) {
		switch s.state.Load() {
		case stateInactive:
			return NotActive, nil
		case stateStarting, stateStopping:
			return 0, ErrSessionBusy
		}
	}

	scope := common.GetScopeFromContext(ctx, "Session.Stop")
	defer scope.Finish()

	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	var errs error
	if conn != nil {
		if err := conn.ClearActivity(scope.Ctx); err != nil {
			errs = errors.Join(errs, err)
		}
		if err := conn.Close(); err != nil {
			errs = errors.Join(errs, err)
		}
	}

	s.state.Store(stateInactive)
	s.notify(false)

	if errs != nil {
		scope.TraceError(errs)
		scope.Log.Errorf("presence session stopped with errors: %v", errs)
		return Stopped, fmt.Errorf("%w: %w", ErrStop, errs)
	}

	scope.Log.Info("presence session stopped")
	return Stopped, nil
}

// Close stops the session if it is active. Used on shutdown.
func (s *Session) Close(ctx context.Context) error {
	if _, err := s.Stop(ctx); err != nil && !errors.Is(err, ErrSessionBusy) {
		return err
	}
	return nil
}

func (s *Session) notify(active bool) {
	for _, o := range s.observers {
		o(active)
	}
}
