package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectors_Register(t *testing.T) {
	registry := prometheus.NewRegistry()
	for _, c := range Collectors() {
		if err := registry.Register(c); err != nil {
			t.Fatalf("failed to register collector: %v", err)
		}
	}
}

func TestSetPresenceActive(t *testing.T) {
	SetPresenceActive(true)
	if got := testutil.ToFloat64(PresenceActive); got != 1 {
		t.Errorf("PresenceActive = %v, expected 1", got)
	}

	SetPresenceActive(false)
	if got := testutil.ToFloat64(PresenceActive); got != 0 {
		t.Errorf("PresenceActive = %v, expected 0", got)
	}
}

func TestRatingsFetchTotal_Labels(t *testing.T) {
	before := testutil.ToFloat64(RatingsFetchTotal.WithLabelValues("fallback"))
	RatingsFetchTotal.WithLabelValues("fallback").Inc()
	after := testutil.ToFloat64(RatingsFetchTotal.WithLabelValues("fallback"))

	if after-before != 1 {
		t.Errorf("fallback counter moved by %v, expected 1", after-before)
	}
}
