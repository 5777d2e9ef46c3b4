package telemetry_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"fleetwise/internal/telemetry"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	telemetry.Transitions.WithLabelValues(telemetry.ResultApplied).Inc()
	telemetry.Alerts.WithLabelValues(telemetry.ActionCreated).Inc()
	telemetry.MonitorCycleDuration.Observe(0.2)

	// Handler must be safe to call more than once.
	_ = telemetry.Handler()
	srv := httptest.NewServer(telemetry.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `fleetwise_transitions_total{result="applied"}`)
	assert.Contains(t, string(body), "fleetwise_monitor_cycle_duration_seconds_bucket")
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(telemetry.MonitorCycles.WithLabelValues(telemetry.ResultSkipped))

	telemetry.MonitorCycles.WithLabelValues(telemetry.ResultSkipped).Inc()

	assert.Equal(t, before+1, testutil.ToFloat64(telemetry.MonitorCycles.WithLabelValues(telemetry.ResultSkipped)))
}
