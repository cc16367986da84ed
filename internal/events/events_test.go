// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/orientation_bridge/internal/orientation"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("device orientation", func(t *testing.T) {
		t.Parallel()
		e, err := Decode([]byte(`{"type":"deviceorientation","alpha":10,"beta":20,"webkitCompassHeading":90}`))
		require.NoError(t, err)
		assert.Equal(t, DeviceOrientation, e.Type)
		require.NotNil(t, e.Sample.Alpha)
		assert.Equal(t, 10.0, *e.Sample.Alpha)
		assert.Equal(t, 20.0, *e.Sample.Beta)
		assert.Nil(t, e.Sample.Gamma)
		assert.Equal(t, 90.0, *e.Sample.WebkitCompassHeading)
	})

	t.Run("screen orientation", func(t *testing.T) {
		t.Parallel()
		e, err := Decode([]byte(`{"type":"orientationchange","angle":-90}`))
		require.NoError(t, err)
		assert.Equal(t, Event{Type: ScreenOrientationChange, Angle: -90}, e)
	})

	t.Run("screen orientation without angle", func(t *testing.T) {
		t.Parallel()
		e, err := Decode([]byte(`{"type":"orientationchange"}`))
		require.NoError(t, err)
		assert.Zero(t, e.Angle)
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Parallel()
		_, err := Decode([]byte(`{"type":"devicemotion"}`))
		assert.ErrorIs(t, err, ErrUnknownType)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		_, err := Decode([]byte(`{"type":`))
		assert.Error(t, err)
	})
}

func TestDecodeAs_TopicTypeWins(t *testing.T) {
	t.Parallel()

	e, err := DecodeAs(DeviceOrientation, []byte(`{"type":"orientationchange","gamma":5}`))
	require.NoError(t, err)
	assert.Equal(t, DeviceOrientation, e.Type)
	assert.Equal(t, 5.0, *e.Sample.Gamma)
}

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	in := Event{Type: DeviceOrientation, Sample: orientation.NewSample(1, 2, 3)}
	payload, err := Encode(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"deviceorientation","alpha":1,"beta":2,"gamma":3}`, string(payload))

	out, err := Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = Encode(Event{Type: "bogus"})
	assert.ErrorIs(t, err, ErrUnknownType)
}
