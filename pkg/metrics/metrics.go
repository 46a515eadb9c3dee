// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "tanki_presence"

var (
	// ControlRequestsTotal counts control endpoint calls by endpoint and outcome.
	ControlRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "control_requests_total",
			Help:      "Total number of control server requests",
		},
		[]string{"endpoint", "outcome"},
	)

	// RatingsFetchTotal counts profile fetches by result (ok, fallback, error).
	RatingsFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ratings_fetch_total",
			Help:      "Total number of ratings profile fetches",
		},
		[]string{"result"},
	)

	IPCLoginFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ipc_login_failures_total",
			Help:      "Total number of failed Discord IPC logins",
		},
	)

	// PresenceActive is 1 while a rich presence activity is published.
	PresenceActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "presence_active",
			Help:      "Whether the rich presence session is active",
		},
	)
)

// Collectors returns every domain collector for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		ControlRequestsTotal,
		RatingsFetchTotal,
		IPCLoginFailuresTotal,
		PresenceActive,
	}
}

// SetPresenceActive mirrors the session state onto the PresenceActive gauge.
func SetPresenceActive(active bool) {
	if active {
		PresenceActive.Set(1)
		return
	}
	PresenceActive.Set(0)
}
