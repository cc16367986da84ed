// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/num/quat"
)

const tol = 1e-12

var approx = cmpopts.EquateApprox(0, tol)

func assertQuat(t *testing.T, want, got quat.Number) {
	t.Helper()
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("quaternion mismatch (-want +got):\n%s", diff)
	}
}

// fromEulerYXZClosedForm is the expanded half-angle product for YXZ order.
func fromEulerYXZClosedForm(x, y, z float64) quat.Number {
	c1, c2, c3 := math.Cos(x/2), math.Cos(y/2), math.Cos(z/2)
	s1, s2, s3 := math.Sin(x/2), math.Sin(y/2), math.Sin(z/2)
	return quat.Number{
		Imag: s1*c2*c3 + c1*s2*s3,
		Jmag: c1*s2*c3 - s1*c2*s3,
		Kmag: c1*c2*s3 - s1*s2*c3,
		Real: c1*c2*c3 + s1*s2*s3,
	}
}

func TestFromEulerYXZ_MatchesClosedForm(t *testing.T) {
	t.Parallel()

	for _, angles := range [][3]float64{
		{0, 0, 0},
		{0.3, -1.2, 2.5},
		{-math.Pi / 2, math.Pi, 0.1},
		{1, 1, 1},
	} {
		assertQuat(t, fromEulerYXZClosedForm(angles[0], angles[1], angles[2]),
			FromEulerYXZ(angles[0], angles[1], angles[2]))
	}
}

func TestObjectQuaternion_ZeroAnglesIsCameraCorrection(t *testing.T) {
	t.Parallel()

	got := ObjectQuaternion(0, 0, 0, 0)
	assertQuat(t, quat.Number{Real: math.Sqrt(0.5), Imag: -math.Sqrt(0.5)}, got)
	assertQuat(t, quat.Mul(CameraCorrection, FromAxisAngle(ZAxis, 0)), got)
}

func TestObjectQuaternion_ScreenCompensation(t *testing.T) {
	t.Parallel()

	alpha, beta, gamma := degToRad(30), degToRad(60), degToRad(-20)
	portrait := ObjectQuaternion(alpha, beta, gamma, 0)
	landscape := ObjectQuaternion(alpha, beta, gamma, degToRad(90))

	assert.False(t, cmp.Equal(portrait, landscape, approx))
	assertQuat(t, quat.Mul(portrait, FromAxisAngle(ZAxis, -math.Pi/2)), landscape)
}

func TestObjectQuaternion_UnitNorm(t *testing.T) {
	t.Parallel()

	for a := -180.0; a <= 360; a += 45 {
		for b := -180.0; b <= 360; b += 60 {
			for g := -180.0; g <= 360; g += 75 {
				for _, o := range []float64{-90, 0, 90, 180} {
					q := ObjectQuaternion(degToRad(a), degToRad(b), degToRad(g), degToRad(o))
					assert.InDelta(t, 1.0, quat.Abs(q), 1e-9, "a=%v b=%v g=%v o=%v", a, b, g, o)
				}
			}
		}
	}
}

func TestEulerYXZ_RoundTrip(t *testing.T) {
	t.Parallel()

	x, y, z := 0.4, -1.1, 2.0
	gx, gy, gz := EulerYXZ(FromEulerYXZ(x, y, z))
	assert.InDelta(t, x, gx, 1e-9)
	assert.InDelta(t, y, gy, 1e-9)
	assert.InDelta(t, z, gz, 1e-9)
}

func TestEulerXYZ_RoundTrip(t *testing.T) {
	t.Parallel()

	x, y, z := -0.7, 0.5, 1.3
	gx, gy, gz := EulerXYZ(FromEulerXYZ(x, y, z))
	assert.InDelta(t, x, gx, 1e-9)
	assert.InDelta(t, y, gy, 1e-9)
	assert.InDelta(t, z, gz, 1e-9)
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assertQuat(t, Identity, Normalize(quat.Number{}))
	assertQuat(t, quat.Number{Real: 0.6, Kmag: 0.8}, Normalize(quat.Number{Real: 3, Kmag: 4}))
}

func TestIsFinite(t *testing.T) {
	t.Parallel()

	assert.True(t, IsFinite(Identity))
	assert.False(t, IsFinite(quat.Number{Real: math.NaN()}))
	assert.False(t, IsFinite(quat.Number{Jmag: math.Inf(1)}))
}

func TestPoseFromQuaternion(t *testing.T) {
	t.Parallel()

	q := FromEulerYXZ(degToRad(10), degToRad(20), degToRad(30))
	p := PoseFromQuaternion(q)

	assert.InDelta(t, 10, p.Pitch, 1e-9)
	assert.InDelta(t, 20, p.Yaw, 1e-9)
	assert.InDelta(t, 30, p.Roll, 1e-9)
	assertQuat(t, q, p.Quaternion())
}
