// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relabs-tech/orientation_bridge/internal/orientation"
)

func litPixels(pix []byte) int {
	n := 0
	for _, b := range pix {
		for ; b != 0; b &= b - 1 {
			n++
		}
	}
	return n
}

func TestRenderPose(t *testing.T) {
	t.Parallel()

	waiting := renderPose(orientation.Pose{}, false)
	assert.Equal(t, displayBounds, waiting.Bounds())
	assert.Positive(t, litPixels(waiting.Pix))

	a := renderPose(orientation.Pose{Yaw: 10, Pitch: 20, Roll: 30, W: 1}, true)
	b := renderPose(orientation.Pose{Yaw: -170, Pitch: 20, Roll: 30, W: 1}, true)
	assert.Positive(t, litPixels(a.Pix))
	assert.False(t, bytes.Equal(a.Pix, b.Pix))
	assert.False(t, bytes.Equal(a.Pix, waiting.Pix))
}

func TestRenderLines_Blank(t *testing.T) {
	t.Parallel()

	assert.Zero(t, litPixels(renderLines().Pix))
}

func TestDisplayData(t *testing.T) {
	t.Parallel()

	var d displayData
	_, ok := d.get()
	assert.False(t, ok)

	d.set(orientation.Pose{Yaw: 5})
	p, ok := d.get()
	assert.True(t, ok)
	assert.Equal(t, 5.0, p.Yaw)
}
