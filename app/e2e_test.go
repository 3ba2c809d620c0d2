package app

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/courseadvisor/core/factory"
	"github.com/kilianp07/courseadvisor/infra/mqtt"
	"github.com/kilianp07/courseadvisor/internal/testutil"
)

// TestServiceEndToEnd serves a recommendation over HTTP and checks the MQTT
// notification and the Prometheus counters.
func TestServiceEndToEnd(t *testing.T) {
	testutil.RequireDocker(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker, cleanup, err := testutil.StartMosquitto(ctx)
	require.NoError(t, err)
	defer cleanup()

	msgs, unsubscribe, err := testutil.Subscribe(broker, mqtt.Topic("", "s7"))
	require.NoError(t, err)
	defer unsubscribe()

	cfg := testConfig(t)
	cfg.HTTP.Addr = testutil.FreeAddr(t)
	cfg.Metrics.PrometheusAddr = testutil.FreeAddr(t)
	cfg.Metrics.Sinks = []factory.ModuleConfig{{Type: "prometheus"}}
	cfg.MQTT = mqtt.Config{Broker: broker, ClientID: "e2e", QoS: 1}

	svc, err := New(ctx, cfg)
	require.NoError(t, err)
	defer svc.Close()

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- svc.Run(runCtx) }()
	defer func() {
		stop()
		assert.NoError(t, <-done)
	}()

	base := "http://" + cfg.HTTP.Addr
	require.NoError(t, testutil.WaitForHTTP(ctx, base+"/healthz"))

	body := `{"student_id":"s7","required_credits":7,"preferences":{
		"preferred_subjects":["Computer Science","Mathematics"],
		"preferred_days":["Monday","Wednesday"],
		"preferred_time_slots":["09:00"],
		"max_classes_per_day":2,
		"preferred_campus":"Main Campus"}}`
	resp, err := http.Post(base+"/api/recommendations", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	select {
	case raw := <-msgs:
		var msg mqtt.Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, "s7", msg.StudentID)
		assert.Equal(t, 7, msg.RequiredCredits)
		assert.Zero(t, msg.Shortfall)
	case <-time.After(10 * time.Second):
		t.Fatal("timeout waiting for notification")
	}

	metricsURL := "http://" + cfg.Metrics.PrometheusAddr + "/metrics"
	assert.NoError(t, testutil.WaitForMetric(ctx, metricsURL, `course_selections_total{course_id="MATH201"}`))
}
