// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package cli

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/tanki-rpc/tanki-rich-presence/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	command  string
	username string
}

func testRunner(rec *recorder, cfg *config.Config) Runner {
	return Runner{
		LoadConfig: func() (*config.Config, error) { return cfg, nil },
		Show: func(_ context.Context, _ *config.Config, username string) error {
			rec.command, rec.username = "show", username
			return nil
		},
		Serve: func(_ context.Context, _ *config.Config, username string) error {
			rec.command, rec.username = "serve", username
			return nil
		},
	}
}

func validConfig() *config.Config {
	return &config.Config{
		ClientID:       "1",
		APIKey:         "secret",
		IPCTimeout:     time.Second,
		ControlPort:    3000,
		RatingsBaseURL: "https://ratings.tankionline.com",
		RatingsTimeout: time.Second,
	}
}

func run(r Runner, args ...string) error {
	cmd := NewRootCmd(r)
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.ExecuteContext(context.Background())
}

func TestRoot_Commands(t *testing.T) {
	for _, command := range []string{"show", "serve"} {
		t.Run(command, func(t *testing.T) {
			rec := &recorder{}
			require.NoError(t, run(testRunner(rec, validConfig()), command, "Tanker"))
			assert.Equal(t, command, rec.command)
			assert.Equal(t, "Tanker", rec.username)
		})
	}
}

func TestRoot_MissingUsername(t *testing.T) {
	for _, command := range []string{"show", "serve"} {
		t.Run(command, func(t *testing.T) {
			rec := &recorder{}
			assert.Error(t, run(testRunner(rec, validConfig()), command))
			assert.Empty(t, rec.command)
		})
	}
}

func TestRoot_TooManyArgs(t *testing.T) {
	rec := &recorder{}
	assert.Error(t, run(testRunner(rec, validConfig()), "show", "a", "b"))
	assert.Empty(t, rec.command)
}

func TestRoot_ServeRequiresAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.APIKey = ""

	rec := &recorder{}
	assert.Error(t, run(testRunner(rec, cfg), "serve", "Tanker"))
	assert.Empty(t, rec.command)

	require.NoError(t, run(testRunner(rec, cfg), "show", "Tanker"))
	assert.Equal(t, "show", rec.command)
}

func TestRoot_ConfigError(t *testing.T) {
	r := testRunner(&recorder{}, nil)
	r.LoadConfig = func() (*config.Config, error) { return nil, errors.New("CLIENT_ID missing") }

	assert.Error(t, run(r, "show", "Tanker"))
}

func TestRoot_InvalidLogLevel(t *testing.T) {
	rec := &recorder{}
	assert.Error(t, run(testRunner(rec, validConfig()), "--log-level", "loud", "show", "Tanker"))
	assert.Empty(t, rec.command)
}
