// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// Vec3 is an axis in 3D space.
type Vec3 struct {
	X, Y, Z float64
}

var (
	// XAxis, YAxis and ZAxis are the scene's unit axes.
	XAxis = Vec3{1, 0, 0}
	YAxis = Vec3{0, 1, 0}
	ZAxis = Vec3{0, 0, 1}

	// CameraCorrection is -90° around the X axis: the camera looks out of
	// the back of the device, not the top.
	CameraCorrection = quat.Number{Real: math.Sqrt(0.5), Imag: -math.Sqrt(0.5)}

	// Identity is the no-rotation quaternion.
	Identity = quat.Number{Real: 1}
)

// FromAxisAngle returns the rotation of angle radians around the unit axis.
func FromAxisAngle(axis Vec3, angle float64) quat.Number {
	s, c := math.Sincos(angle / 2)
	return quat.Number{Real: c, Imag: axis.X * s, Jmag: axis.Y * s, Kmag: axis.Z * s}
}

// FromEulerYXZ returns the rotation described by Euler angles x, y, z
// (radians) applied in intrinsic Y, X, Z order, i.e. Ry·Rx·Rz.
func FromEulerYXZ(x, y, z float64) quat.Number {
	q := quat.Mul(FromAxisAngle(YAxis, y), FromAxisAngle(XAxis, x))
	return quat.Mul(q, FromAxisAngle(ZAxis, z))
}

// FromEulerXYZ returns the rotation Rx·Ry·Rz.
func FromEulerXYZ(x, y, z float64) quat.Number {
	q := quat.Mul(FromAxisAngle(XAxis, x), FromAxisAngle(YAxis, y))
	return quat.Mul(q, FromAxisAngle(ZAxis, z))
}

// ObjectQuaternion converts device angles in radians into the rotation of a
// scene object that should look through the device. alpha, beta and gamma
// form intrinsic Tait-Bryan angles of type Z-X'-Y''; orient is the screen
// rotation.
//
// The device convention is ZXY but the scene's Euler convention labels the
// axes differently, so the Euler triple is (beta, alpha, -gamma) in YXZ.
func ObjectQuaternion(alpha, beta, gamma, orient float64) quat.Number {
	q := FromEulerYXZ(beta, alpha, -gamma)
	q = quat.Mul(q, CameraCorrection)
	return quat.Mul(q, FromAxisAngle(ZAxis, -orient))
}

// Normalize scales q to unit length. The zero quaternion maps to Identity.
func Normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return Identity
	}
	return quat.Scale(1/n, q)
}

// IsFinite reports whether every component of q is a finite number.
func IsFinite(q quat.Number) bool {
	return !quat.IsNaN(q) && !quat.IsInf(q)
}

// rotationMatrix returns the 3x3 rotation matrix elements of a unit quaternion.
func rotationMatrix(q quat.Number) (m11, m12, m13, m21, m22, m23, m31, m32, m33 float64) {
	x, y, z, w := q.Imag, q.Jmag, q.Kmag, q.Real
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	m11, m12, m13 = 1-2*(yy+zz), 2*(xy-wz), 2*(xz+wy)
	m21, m22, m23 = 2*(xy+wz), 1-2*(xx+zz), 2*(yz-wx)
	m31, m32, m33 = 2*(xz-wy), 2*(yz+wx), 1-2*(xx+yy)
	return
}

// gimbalLimit is where the middle angle is treated as ±90°.
const gimbalLimit = 0.9999999

// EulerYXZ decomposes q into YXZ Euler angles (radians), the inverse of
// FromEulerYXZ away from gimbal lock.
func EulerYXZ(q quat.Number) (x, y, z float64) {
	m11, _, m13, m21, m22, m23, m31, _, m33 := rotationMatrix(Normalize(q))

	x = math.Asin(-clamp(m23, -1, 1))
	if math.Abs(m23) < gimbalLimit {
		y = math.Atan2(m13, m33)
		z = math.Atan2(m21, m22)
	} else {
		y = math.Atan2(-m31, m11)
		z = 0
	}
	return x, y, z
}

// EulerXYZ decomposes q into XYZ Euler angles (radians).
func EulerXYZ(q quat.Number) (x, y, z float64) {
	m11, m12, m13, _, m22, m23, _, m32, m33 := rotationMatrix(Normalize(q))

	y = math.Asin(clamp(m13, -1, 1))
	if math.Abs(m13) < gimbalLimit {
		x = math.Atan2(-m23, m33)
		z = math.Atan2(-m12, m11)
	} else {
		x = math.Atan2(m32, m22)
		z = 0
	}
	return x, y, z
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}
