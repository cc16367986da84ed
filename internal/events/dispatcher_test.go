// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_DeliversInOrder(t *testing.T) {
	t.Parallel()

	d := NewDispatcher()
	var got []string
	_, err := d.Subscribe(DeviceOrientation, func(Event) { got = append(got, "first") })
	require.NoError(t, err)
	_, err = d.Subscribe(DeviceOrientation, func(Event) { got = append(got, "second") })
	require.NoError(t, err)
	_, err = d.Subscribe(ScreenOrientationChange, func(Event) { got = append(got, "screen") })
	require.NoError(t, err)

	require.NoError(t, d.Dispatch(Event{Type: DeviceOrientation}))
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestDispatcher_TracksScreenOrientation(t *testing.T) {
	t.Parallel()

	d := NewDispatcher()
	assert.Zero(t, d.ScreenOrientation())

	require.NoError(t, d.Dispatch(Event{Type: ScreenOrientationChange, Angle: 90}))
	assert.Equal(t, 90.0, d.ScreenOrientation())

	require.NoError(t, d.Dispatch(Event{Type: DeviceOrientation}))
	assert.Equal(t, 90.0, d.ScreenOrientation())
}

func TestDispatcher_Unsubscribe(t *testing.T) {
	t.Parallel()

	d := NewDispatcher()
	calls := 0
	sub, err := d.Subscribe(DeviceOrientation, func(Event) { calls++ })
	require.NoError(t, err)
	assert.Equal(t, 1, d.ListenerCount(DeviceOrientation))

	require.NoError(t, d.Unsubscribe(sub))
	require.NoError(t, d.Unsubscribe(sub))
	require.NoError(t, d.Unsubscribe(Subscription{Type: ScreenOrientationChange}))
	assert.Zero(t, d.ListenerCount(DeviceOrientation))

	require.NoError(t, d.Dispatch(Event{Type: DeviceOrientation}))
	assert.Zero(t, calls)
}

func TestDispatcher_Errors(t *testing.T) {
	t.Parallel()

	d := NewDispatcher()
	_, err := d.Subscribe("devicemotion", func(Event) {})
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = d.Subscribe(DeviceOrientation, nil)
	assert.Error(t, err)

	assert.ErrorIs(t, d.Dispatch(Event{Type: "devicemotion"}), ErrUnknownType)
}

func TestDispatcher_ListenerMayUnsubscribeItself(t *testing.T) {
	t.Parallel()

	d := NewDispatcher()
	var sub Subscription
	calls := 0
	sub, err := d.Subscribe(DeviceOrientation, func(Event) {
		calls++
		_ = d.Unsubscribe(sub)
	})
	require.NoError(t, err)

	require.NoError(t, d.Dispatch(Event{Type: DeviceOrientation}))
	require.NoError(t, d.Dispatch(Event{Type: DeviceOrientation}))
	assert.Equal(t, 1, calls)
}
