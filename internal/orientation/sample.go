// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

// Sample is one device-orientation reading in degrees, as delivered by a
// browser deviceorientation event. Absent fields are nil. A new Sample
// replaces the previous one wholesale; fields are never merged.
type Sample struct {
	Alpha *float64 `json:"alpha,omitempty"` // Z
	Beta  *float64 `json:"beta,omitempty"`  // X'
	Gamma *float64 `json:"gamma,omitempty"` // Y''

	CompassHeading       *float64 `json:"compassHeading,omitempty"`
	WebkitCompassHeading *float64 `json:"webkitCompassHeading,omitempty"`
}

// Float returns a pointer to v, for building samples.
func Float(v float64) *float64 {
	return &v
}

// NewSample builds a sample with alpha, beta and gamma set.
func NewSample(alpha, beta, gamma float64) Sample {
	return Sample{Alpha: Float(alpha), Beta: Float(beta), Gamma: Float(gamma)}
}

// value reads an optional field, absent as zero.
func value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Heading returns the compass heading in degrees, preferring the vendor
// prefixed field. A zero heading counts as absent.
func (s Sample) Heading() (float64, bool) {
	if h := value(s.WebkitCompassHeading); h != 0 {
		return h, true
	}
	if h := value(s.CompassHeading); h != 0 {
		return h, true
	}
	return 0, false
}

// FixedAlpha is the device-relative alpha in degrees. A compass-calibrated
// heading is switched back to the alpha representation (360 - heading).
func (s Sample) FixedAlpha() float64 {
	if h, ok := s.Heading(); ok {
		return 360 - h
	}
	return value(s.Alpha)
}

// Angles resolves the sample and the screen orientation (degrees) into
// the four rotation angles in radians. Absent and zero values both map to
// 0 rad.
func (s Sample) Angles(screen float64) (alpha, beta, gamma, orient float64) {
	return degToRad(s.FixedAlpha()),
		degToRad(value(s.Beta)),
		degToRad(value(s.Gamma)),
		degToRad(screen)
}
