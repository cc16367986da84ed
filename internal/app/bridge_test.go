// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/orientation_bridge/internal/config"
	"github.com/relabs-tech/orientation_bridge/internal/events"
	"github.com/relabs-tech/orientation_bridge/internal/metrics"
	"github.com/relabs-tech/orientation_bridge/internal/orientation"
)

func newTestBridge(t *testing.T, mutate func(*config.Config)) *Bridge {
	t.Helper()
	cfg := config.Default()
	cfg.WebStaticDir = ""
	if mutate != nil {
		mutate(cfg)
	}
	b, err := NewBridge(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Stop() })
	return b
}

func TestBridge_TickAppliesMQTTEvents(t *testing.T) {
	t.Parallel()

	b := newTestBridge(t, nil)
	require.NoError(t, b.Start())

	_, ok := b.LastPose()
	assert.False(t, ok)

	b.receiveMQTT(events.DeviceOrientation, []byte(`{"alpha":0,"beta":0,"gamma":0}`))
	pose, changed := b.Tick()
	require.True(t, changed)
	assert.InDelta(t, math.Sqrt(0.5), pose.W, 1e-12)
	assert.InDelta(t, -math.Sqrt(0.5), pose.X, 1e-12)
	assert.InDelta(t, 0, pose.Y, 1e-12)
	assert.InDelta(t, 0, pose.Z, 1e-12)

	_, changed = b.Tick()
	assert.False(t, changed, "same sample twice yields the same pose")

	b.receiveMQTT(events.ScreenOrientationChange, []byte(`{"angle":90}`))
	landscape, changed := b.Tick()
	require.True(t, changed)
	assert.NotEqual(t, pose, landscape)

	last, ok := b.LastPose()
	require.True(t, ok)
	assert.Equal(t, landscape, last)

	assert.Equal(t, 3.0, testutil.ToFloat64(b.metrics.Updates.WithLabelValues(metrics.ResultApplied)))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.metrics.EventsReceived.WithLabelValues("deviceorientation", transportMQTT)))
}

func TestBridge_RejectsBadPayload(t *testing.T) {
	t.Parallel()

	b := newTestBridge(t, nil)
	require.NoError(t, b.Start())

	b.receiveMQTT(events.DeviceOrientation, []byte(`not json`))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.metrics.EventsRejected.WithLabelValues(transportMQTT)))
}

func TestBridge_StartFrozen(t *testing.T) {
	t.Parallel()

	b := newTestBridge(t, func(c *config.Config) { c.StartFrozen = true })
	require.NoError(t, b.Start())
	assert.True(t, b.controls.Frozen())

	require.NoError(t, b.Receive(transportMQTT, events.Event{Type: events.DeviceOrientation, Sample: orientation.NewSample(1, 2, 3)}))
	_, changed := b.Tick()
	assert.False(t, changed)
	assert.Equal(t, orientation.Identity, b.object.Quaternion())
	assert.Equal(t, 1.0, testutil.ToFloat64(b.metrics.Updates.WithLabelValues(metrics.ResultFrozen)))
}

func TestBridge_SkipsNonFiniteSample(t *testing.T) {
	t.Parallel()

	b := newTestBridge(t, nil)
	require.NoError(t, b.Start())

	require.NoError(t, b.Receive(transportMQTT, events.Event{Type: events.DeviceOrientation, Sample: orientation.NewSample(1, math.Inf(-1), 3)}))
	_, changed := b.Tick()
	assert.False(t, changed)
	assert.Equal(t, 1.0, testutil.ToFloat64(b.metrics.Updates.WithLabelValues(metrics.ResultSkipped)))
}
