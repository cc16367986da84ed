// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package controls drives a scene object's rotation from device
// orientation events (W3C DeviceOrientation), compensating for screen
// rotation and for the camera looking out of the back of the device.
package controls

import (
	"errors"
	"fmt"
	"sync"

	"gonum.org/v1/gonum/num/quat"

	"github.com/relabs-tech/orientation_bridge/internal/events"
	"github.com/relabs-tech/orientation_bridge/internal/orientation"
	"github.com/relabs-tech/orientation_bridge/internal/scene"
)

var (
	ErrNilTarget       = errors.New("controls: target is nil")
	ErrNilPlatform     = errors.New("controls: platform is nil")
	ErrNonFiniteSample = errors.New("controls: sample has non-finite angles")
)

// Target is the object whose rotation the controls write.
type Target interface {
	Reorder(order scene.Order) error
	SetQuaternion(q quat.Number)
}

// Platform delivers orientation events and exposes the current screen
// orientation angle.
type Platform interface {
	ScreenOrientation() float64
	Subscribe(t events.Type, l events.Listener) (events.Subscription, error)
	Unsubscribe(s events.Subscription) error
}

// DeviceOrientationControls caches the latest screen angle and device
// sample and, on each Update, writes the matching rotation to the target.
// Event listeners and Update may run on different goroutines.
type DeviceOrientationControls struct {
	target   Target
	platform Platform

	mu                sync.Mutex
	frozen            bool
	deviceOrientation orientation.Sample
	screenOrientation float64
	subs              []events.Subscription

	// scratch output, reused across updates
	q quat.Number
}

// New creates frozen controls for target. The target's rotation order is
// switched to YXZ, the order the device quaternion is composed in.
func New(target Target, platform Platform) (*DeviceOrientationControls, error) {
	if target == nil {
		return nil, ErrNilTarget
	}
	if platform == nil {
		return nil, ErrNilPlatform
	}
	if err := target.Reorder(scene.OrderYXZ); err != nil {
		return nil, fmt.Errorf("controls: reorder target: %w", err)
	}
	return &DeviceOrientationControls{
		target:   target,
		platform: platform,
		frozen:   true,
	}, nil
}

func (c *DeviceOrientationControls) onScreenOrientationChange(e events.Event) {
	c.SetScreenOrientation(e.Angle)
}

func (c *DeviceOrientationControls) onDeviceOrientation(e events.Event) {
	c.SetDeviceOrientation(e.Sample)
}

// Connect reads the current screen orientation once, registers both event
// listeners and unfreezes. Connecting again while connected only refreshes
// the screen orientation.
func (c *DeviceOrientationControls) Connect() error {
	c.SetScreenOrientation(c.platform.ScreenOrientation())

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.subs) == 0 {
		screenSub, err := c.platform.Subscribe(events.ScreenOrientationChange, c.onScreenOrientationChange)
		if err != nil {
			return fmt.Errorf("controls: subscribe %s: %w", events.ScreenOrientationChange, err)
		}
		deviceSub, err := c.platform.Subscribe(events.DeviceOrientation, c.onDeviceOrientation)
		if err != nil {
			if uerr := c.platform.Unsubscribe(screenSub); uerr != nil {
				err = errors.Join(err, uerr)
			}
			return fmt.Errorf("controls: subscribe %s: %w", events.DeviceOrientation, err)
		}
		c.subs = []events.Subscription{screenSub, deviceSub}
	}

	c.frozen = false
	return nil
}

// Disconnect freezes the controls and removes both listeners. Cached
// samples are kept. It is safe to call without a prior Connect.
func (c *DeviceOrientationControls) Disconnect() error {
	c.mu.Lock()
	c.frozen = true
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()

	var errs []error
	for _, s := range subs {
		if err := c.platform.Unsubscribe(s); err != nil {
			errs = append(errs, fmt.Errorf("controls: unsubscribe %s: %w", s.Type, err))
		}
	}
	return errors.Join(errs...)
}

// ToggleFreeze flips the frozen flag. Listeners are untouched.
func (c *DeviceOrientationControls) ToggleFreeze() {
	c.mu.Lock()
	c.frozen = !c.frozen
	c.mu.Unlock()
}

// Frozen reports whether Update currently leaves the target alone.
func (c *DeviceOrientationControls) Frozen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frozen
}

// SetScreenOrientation overwrites the cached screen angle (degrees).
func (c *DeviceOrientationControls) SetScreenOrientation(angle float64) {
	c.mu.Lock()
	c.screenOrientation = angle
	c.mu.Unlock()
}

// SetDeviceOrientation overwrites the cached device sample.
func (c *DeviceOrientationControls) SetDeviceOrientation(s orientation.Sample) {
	c.mu.Lock()
	c.deviceOrientation = s
	c.mu.Unlock()
}

// Update writes the rotation for the cached sample and screen angle to the
// target. It does nothing while frozen. A sample resolving to NaN or
// infinite angles is skipped with ErrNonFiniteSample and the target keeps
// its previous rotation.
func (c *DeviceOrientationControls) Update() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frozen {
		return nil
	}

	alpha, beta, gamma, orient := c.deviceOrientation.Angles(c.screenOrientation)
	c.q = orientation.ObjectQuaternion(alpha, beta, gamma, orient)
	if !orientation.IsFinite(c.q) {
		return ErrNonFiniteSample
	}

	c.target.SetQuaternion(c.q)
	return nil
}
