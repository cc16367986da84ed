// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// Pose is the canonical orientation published by the bridge.
// X, Y, Z, W are the quaternion components; Pitch, Yaw and Roll are the
// same rotation as YXZ Euler angles in degrees.
type Pose struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`

	Pitch float64 `json:"pitch"` // about X
	Yaw   float64 `json:"yaw"`   // about Y
	Roll  float64 `json:"roll"`  // about Z
}

// Source is anything that can provide device-orientation samples over time:
// mock source, IMU tilt source, NMEA heading source.
type Source interface {
	Next() (Sample, error)
}

// PoseFromQuaternion builds a Pose from a rotation quaternion.
func PoseFromQuaternion(q quat.Number) Pose {
	pitch, yaw, roll := EulerYXZ(q)
	return Pose{
		X:     q.Imag,
		Y:     q.Jmag,
		Z:     q.Kmag,
		W:     q.Real,
		Pitch: pitch * 180.0 / math.Pi,
		Yaw:   yaw * 180.0 / math.Pi,
		Roll:  roll * 180.0 / math.Pi,
	}
}

// Quaternion returns the pose rotation as a gonum quaternion.
func (p Pose) Quaternion() quat.Number {
	return quat.Number{Real: p.W, Imag: p.X, Jmag: p.Y, Kmag: p.Z}
}
