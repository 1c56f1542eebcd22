package metrics

import (
	"errors"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	hook := FlushHook(r)
	hook("file", 5*time.Millisecond, nil)
	hook("file", time.Millisecond, errors.New("disk full"))

	r.ObserveInteraction("command", "shift", 20*time.Millisecond, "success")
	r.ObserveInteraction("command", "shift", 30*time.Millisecond, "conflict")
	r.SetActiveShifts(3, 1)
	r.ObserveRefresh(time.Second, 4, 2)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.interactions.WithLabelValues("command", "shift", "conflict")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.activeShifts.WithLabelValues("on_duty")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.activeShifts.WithLabelValues("on_break")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.refreshFailures))

	count, err := testutil.GatherAndCount(reg, "crewbot_store_flush_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	assert.NotPanics(t, func() {
		FlushHook(r)("memory", time.Millisecond, nil)
		r.ObserveInteraction("component", "attend", time.Millisecond, "success")
		r.SetActiveShifts(0, 0)
		r.ObserveRefresh(0, 0, 0)
	})
}
