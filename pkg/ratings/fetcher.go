// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package ratings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tanki-rpc/tanki-rich-presence/pkg/common"
	"github.com/tanki-rpc/tanki-rich-presence/pkg/metrics"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultBaseURL = "https://ratings.tankionline.com"
	DefaultLang    = "en"
	DefaultTimeout = 10 * time.Second

	profilePath = "/api/eu/profile/"
)

// FetcherConfig configures a Fetcher. Zero values fall back to the defaults above.
type FetcherConfig struct {
	BaseURL string
	Lang    string
	Timeout time.Duration

	// Strict turns a non-2xx answer into an error instead of DefaultProfile.
	Strict bool

	// Transport overrides the underlying round tripper, mostly for tests.
	Transport http.RoundTripper
}

// Fetcher reads player profiles from the ratings API.
type Fetcher struct {
	client  *http.Client
	baseURL string
	lang    string
	strict  bool
}

// NewFetcher creates a Fetcher with an instrumented HTTP client.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Lang == "" {
		cfg.Lang = DefaultLang
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &Fetcher{
		client: &http.Client{
			Transport: otelhttp.NewTransport(transport),
			Timeout:   cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		lang:    cfg.Lang,
		strict:  cfg.Strict,
	}
}

// ProfileURL returns the API URL for username.
func (f *Fetcher) ProfileURL(username string) string {
	return fmt.Sprintf("%s%s?user=%s&lang=%s",
		f.baseURL, profilePath, url.QueryEscape(username), url.QueryEscape(f.lang))
}

// Fetch issues one GET for username. A non-2xx answer yields DefaultProfile and no
// error unless the fetcher is strict. Nothing is retried.
func (f *Fetcher) Fetch(ctx context.Context, username string) (Profile, error) {
	scope := common.GetScopeFromContext(ctx, "Fetcher.Fetch")
	defer scope.Finish()
	scope.SetAttributes("ratings.user", username)

	req, err := http.NewRequestWithContext(scope.Ctx, http.MethodGet, f.ProfileURL(username), nil)
	if err != nil {
		scope.TraceError(err)
		return Profile{}, fmt.Errorf("%w: %w", ErrFetchProfile, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		scope.TraceError(err)
		metrics.RatingsFetchTotal.WithLabelValues("error").Inc()
		return Profile{}, fmt.Errorf("%w: %w", ErrFetchProfile, err)
	}
	defer resp.Body.Close()

	scope.SetAttributes("http.status_code", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if f.strict {
			err := fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
			scope.TraceError(err)
			metrics.RatingsFetchTotal.WithLabelValues("error").Inc()
			return Profile{}, err
		}
		scope.Log.Warnf("ratings API answered %d for user %s, using default profile", resp.StatusCode, username)
		metrics.RatingsFetchTotal.WithLabelValues("fallback").Inc()
		return DefaultProfile(), nil
	}

	var envelope profileEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		scope.TraceError(err)
		metrics.RatingsFetchTotal.WithLabelValues("error").Inc()
		return Profile{}, fmt.Errorf("%w: failed to decode response: %w", ErrFetchProfile, err)
	}
	if envelope.Response == nil {
		scope.TraceError(ErrEmptyResponse)
		metrics.RatingsFetchTotal.WithLabelValues("error").Inc()
		return Profile{}, fmt.Errorf("%w: %w", ErrFetchProfile, ErrEmptyResponse)
	}

	metrics.RatingsFetchTotal.WithLabelValues("ok").Inc()
	scope.Log.Infof("fetched ratings profile for %s: rank=%d score=%d/%d premium=%v",
		envelope.Response.Name, envelope.Response.Rank, envelope.Response.Score,
		envelope.Response.ScoreNext, envelope.Response.HasPremium)

	return *envelope.Response, nil
}
